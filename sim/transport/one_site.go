package transport

import "math"

// === SymmetricOneSite ===

// SymmetricOneSite is a single level ε coupled equally (γ) to both
// electrodes. The level shifts by aV under bias.
type SymmetricOneSite struct {
	Channel
}

const (
	symOneEpsilon = 2
	symOneGamma   = 3
	symOneA       = 4
)

func (SymmetricOneSite) Parameters() []string { return []string{"epsilon", "gamma", "a"} }

func symOneSiteTransmission(e, v, eps, gamma, a float64) float64 {
	d := e - eps - a*v
	return gamma * gamma / (d*d + gamma*gamma)
}

func (SymmetricOneSite) ZeroBiasG(p []float64) (float64, error) {
	return symOneSiteTransmission(p[indexEF], 0, p[symOneEpsilon], p[symOneGamma], p[symOneA]), nil
}

func (SymmetricOneSite) DiffG(p []float64) (float64, error) {
	ef, v := p[indexEF], p[indexV]
	eps, gamma, a := p[symOneEpsilon], p[symOneGamma], p[symOneA]
	return (0.5-a)*symOneSiteTransmission(ef+0.5*v, v, eps, gamma, a) +
		(0.5+a)*symOneSiteTransmission(ef-0.5*v, v, eps, gamma, a), nil
}

func (SymmetricOneSite) current(p []float64) float64 {
	ef, v := p[indexEF], p[indexV]
	eps, gamma, a := p[symOneEpsilon], p[symOneGamma], p[symOneA]
	return G0 * gamma * (math.Atan((ef-eps+(0.5-a)*v)/gamma) - math.Atan((ef-eps-(0.5+a)*v)/gamma))
}

func (m SymmetricOneSite) ECurrent(p []float64) (float64, error) { return m.current(p), nil }

func (m SymmetricOneSite) StaticG(p []float64) (float64, error) {
	if p[indexV] == 0 {
		return m.ZeroBiasG(p)
	}
	return m.current(p) / (G0 * p[indexV]), nil
}

func (SymmetricOneSite) SeebeckS(p []float64) (float64, error) {
	z := p[indexEF] - p[symOneEpsilon]
	gamma := p[symOneGamma]
	return 2 * z / (z*z + gamma*gamma), nil
}

// === AsymmetricOneSite ===

// AsymmetricOneSite is a single level ε with separate left and right
// couplings γL and γR.
type AsymmetricOneSite struct {
	Channel
}

const (
	asymOneEpsilon = 2
	asymOneGammaL  = 3
	asymOneGammaR  = 4
	asymOneA       = 5
)

func (AsymmetricOneSite) Parameters() []string {
	return []string{"epsilon", "gammal", "gammar", "a"}
}

func asymOneSiteTransmission(e, v, eps, gl, gr, a float64) float64 {
	d := e - eps - a*v
	return 4 * gl * gr / (4*d*d + (gl+gr)*(gl+gr))
}

func (AsymmetricOneSite) ZeroBiasG(p []float64) (float64, error) {
	return asymOneSiteTransmission(p[indexEF], 0, p[asymOneEpsilon], p[asymOneGammaL], p[asymOneGammaR], p[asymOneA]), nil
}

func (AsymmetricOneSite) DiffG(p []float64) (float64, error) {
	ef, v := p[indexEF], p[indexV]
	eps, gl, gr, a := p[asymOneEpsilon], p[asymOneGammaL], p[asymOneGammaR], p[asymOneA]
	return (0.5-a)*asymOneSiteTransmission(ef+0.5*v, v, eps, gl, gr, a) +
		(0.5+a)*asymOneSiteTransmission(ef-0.5*v, v, eps, gl, gr, a), nil
}

func (AsymmetricOneSite) current(p []float64) float64 {
	ef, v := p[indexEF], p[indexV]
	eps, gl, gr, a := p[asymOneEpsilon], p[asymOneGammaL], p[asymOneGammaR], p[asymOneA]
	return 2 * G0 * gl * gr / (gl + gr) *
		(math.Atan(2*(ef-eps+(0.5-a)*v)/(gl+gr)) - math.Atan(2*(ef-eps-(0.5+a)*v)/(gl+gr)))
}

func (m AsymmetricOneSite) ECurrent(p []float64) (float64, error) { return m.current(p), nil }

func (m AsymmetricOneSite) StaticG(p []float64) (float64, error) {
	if p[indexV] == 0 {
		return m.ZeroBiasG(p)
	}
	return m.current(p) / (G0 * p[indexV]), nil
}
