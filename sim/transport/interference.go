package transport

// Interference is a channel whose transmission vanishes at the level ε
// through destructive interference between two paths coupled by β.
type Interference struct {
	Channel
}

const (
	interfEpsilon = 2
	interfGamma   = 3
	interfBeta    = 4
)

func (Interference) Parameters() []string { return []string{"epsilon", "gamma", "beta"} }

func interferenceTransmission(e, eps, gamma, beta float64) float64 {
	t := e - eps
	u := t*t - beta*beta
	return gamma * gamma * t * t / (u*u + t*t*gamma*gamma)
}

func (Interference) ZeroBiasG(p []float64) (float64, error) {
	return interferenceTransmission(p[indexEF], p[interfEpsilon], p[interfGamma], p[interfBeta]), nil
}
