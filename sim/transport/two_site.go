package transport

import (
	"math"
	"math/cmplx"
)

// === SymmetricTwoSite ===

// SymmetricTwoSite is two degenerate sites ε coupled to each other by β and
// each to one electrode by γ.
type SymmetricTwoSite struct {
	Channel
}

const (
	symTwoEpsilon = 2
	symTwoGamma   = 3
	symTwoBeta    = 4
)

func (SymmetricTwoSite) Parameters() []string { return []string{"epsilon", "gamma", "beta"} }

func symTwoSiteTransmission(e, eps, gamma, beta float64) float64 {
	d := e - eps
	t := 4*d*d - 4*beta*beta - gamma*gamma
	return 16 * gamma * gamma * beta * beta / (t*t + 16*gamma*gamma*d*d)
}

// symTwoSiteIntegral is an antiderivative of the transmission in energy.
func symTwoSiteIntegral(z, eps, gamma, beta float64) float64 {
	w := cmplx.Atanh(complex(2*(z-eps), 0) / complex(2*beta, gamma))
	return 2 * beta * gamma / (4*beta*beta + gamma*gamma) * real(complex(gamma, 2*beta)*w)
}

func (SymmetricTwoSite) ZeroBiasG(p []float64) (float64, error) {
	return symTwoSiteTransmission(p[indexEF], p[symTwoEpsilon], p[symTwoGamma], p[symTwoBeta]), nil
}

func (SymmetricTwoSite) DiffG(p []float64) (float64, error) {
	ef, v := p[indexEF], p[indexV]
	eps, gamma, beta := p[symTwoEpsilon], p[symTwoGamma], p[symTwoBeta]
	return 0.5*symTwoSiteTransmission(ef+0.5*v, eps, gamma, beta) +
		0.5*symTwoSiteTransmission(ef-0.5*v, eps, gamma, beta), nil
}

func (SymmetricTwoSite) current(p []float64) float64 {
	ef, v := p[indexEF], p[indexV]
	eps, gamma, beta := p[symTwoEpsilon], p[symTwoGamma], p[symTwoBeta]
	return G0 * (symTwoSiteIntegral(ef+0.5*v, eps, gamma, beta) - symTwoSiteIntegral(ef-0.5*v, eps, gamma, beta))
}

func (m SymmetricTwoSite) ECurrent(p []float64) (float64, error) { return m.current(p), nil }

func (m SymmetricTwoSite) StaticG(p []float64) (float64, error) {
	if p[indexV] == 0 {
		return m.ZeroBiasG(p)
	}
	return m.current(p) / (G0 * p[indexV]), nil
}

func (SymmetricTwoSite) SeebeckS(p []float64) (float64, error) {
	z := p[indexEF] - p[symTwoEpsilon]
	gamma, beta := p[symTwoGamma], p[symTwoBeta]
	zb := z*z - beta*beta
	return -16 * z * (4*beta*beta - 4*z*z - gamma*gamma) /
		(16*zb*zb + gamma*gamma*(gamma*gamma+8*(z*z+beta*beta))), nil
}

// === AsymmetricTwoSite ===

// AsymmetricTwoSite is SymmetricTwoSite with distinct electrode couplings.
type AsymmetricTwoSite struct {
	Channel
}

const (
	asymTwoEpsilon = 2
	asymTwoGammaL  = 3
	asymTwoGammaR  = 4
	asymTwoBeta    = 5
)

func (AsymmetricTwoSite) Parameters() []string {
	return []string{"epsilon", "gammal", "gammar", "beta"}
}

func asymTwoSiteTransmission(e, eps, gl, gr, beta float64) float64 {
	d := e - eps
	t := 4*d*d - 4*beta*beta - gl*gr
	return 16 * gl * gr * beta * beta / (t*t + 4*(gl+gr)*(gl+gr)*d*d)
}

func asymTwoSiteIntegral(z, eps, gl, gr, beta float64) float64 {
	bgg := cmplx.Sqrt(complex((gl-gr)*(gl-gr)-16*beta*beta, 0))
	base := complex(-8*beta*beta+gl*gl+gr*gr, 0)
	sum := complex(gl+gr, 0)
	d1 := cmplx.Sqrt(base - sum*bgg)
	d2 := cmplx.Sqrt(base + sum*bgg)
	x := complex(math.Sqrt(8)*(z-eps), 0)
	return math.Sqrt(128) * gl * gr * beta * beta / (gl + gr) *
		real((cmplx.Atan(x/d1)/d1-cmplx.Atan(x/d2)/d2)/bgg)
}

func (AsymmetricTwoSite) ZeroBiasG(p []float64) (float64, error) {
	return asymTwoSiteTransmission(p[indexEF], p[asymTwoEpsilon], p[asymTwoGammaL], p[asymTwoGammaR], p[asymTwoBeta]), nil
}

func (AsymmetricTwoSite) DiffG(p []float64) (float64, error) {
	ef, v := p[indexEF], p[indexV]
	eps, gl, gr, beta := p[asymTwoEpsilon], p[asymTwoGammaL], p[asymTwoGammaR], p[asymTwoBeta]
	return 0.5*asymTwoSiteTransmission(ef+0.5*v, eps, gl, gr, beta) +
		0.5*asymTwoSiteTransmission(ef-0.5*v, eps, gl, gr, beta), nil
}

func (AsymmetricTwoSite) current(p []float64) float64 {
	ef, v := p[indexEF], p[indexV]
	eps, gl, gr, beta := p[asymTwoEpsilon], p[asymTwoGammaL], p[asymTwoGammaR], p[asymTwoBeta]
	return G0 * (asymTwoSiteIntegral(ef+0.5*v, eps, gl, gr, beta) - asymTwoSiteIntegral(ef-0.5*v, eps, gl, gr, beta))
}

func (m AsymmetricTwoSite) ECurrent(p []float64) (float64, error) { return m.current(p), nil }

func (m AsymmetricTwoSite) StaticG(p []float64) (float64, error) {
	if p[indexV] == 0 {
		return m.ZeroBiasG(p)
	}
	return m.current(p) / (G0 * p[indexV]), nil
}
