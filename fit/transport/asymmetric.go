package transport

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/molstat/molstat/fit"
)

// AsymmetricResonant is the line shape of resonant tunneling through one
// level with unequal couplings γL and γR, where r is the ratio of the
// coupling and level spreads:
//
//	P(g) = norm / g^{3/2} · ∫ x/((1+x²)^{3/2} √(4x - g(1+x)²)) ·
//	       (1 + (γL + xγR)²/(1+x²)) ·
//	       exp(-(xγL - γR)²/(2(1+x²)) - r²(γL²+γR²)(4x - g(1+x)²)/(8g(1+x²))) dx
//
// over the interval where 4x - g(1+x)² ≥ 0. Substituting x = c + h·sin t
// removes the inverse square-root singularities at the end points, so a
// fixed Gauss-Legendre rule in t is accurate.
type AsymmetricResonant struct{}

const (
	arGammaL = iota
	arGammaR
	arR
	arNorm
)

const arQuadPoints = 200

var arNodes, arWeights = legendreRule(arQuadPoints, -math.Pi/2, math.Pi/2)

func legendreRule(n int, lo, hi float64) ([]float64, []float64) {
	x := make([]float64, n)
	w := make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, lo, hi)
	return x, w
}

func (AsymmetricResonant) NumParams() int { return 4 }

func (AsymmetricResonant) ParamNames() []string {
	return []string{"gammal", "gammar", "r", "norm"}
}

type arIntegrals struct {
	p, dgl, dgr, dr float64
}

// arIntegrate evaluates the line-shape integral and, with jac set, the
// integrals needed for its derivatives.
func arIntegrate(params []float64, g float64, jac bool) arIntegrals {
	gl, gr, r := params[arGammaL], params[arGammaR], params[arR]
	c := (2 - g) / g
	h := 2 * math.Sqrt(1-g) / g
	sg := math.Sqrt(g)

	var out arIntegrals
	for k, t := range arNodes {
		w := arWeights[k]
		cos := math.Cos(t)
		x := c + h*math.Sin(t)
		dx := h * cos
		// sqrt(4x - g(1+x)²)
		s := sg * dx
		t2 := 1 + x*x
		t3 := (gl + x*gr) * (gl + x*gr) / t2
		d := x*gl - gr
		e := math.Exp(-0.5*d*d/t2 - 0.125*r*r*(gl*gl+gr*gr)*s*s/(t2*g))

		// dx / s = dt / √g
		out.p += w * x / (t2 * math.Sqrt(t2)) * (1 + t3) * e / sg
		if !jac {
			continue
		}
		pre := x / (t2 * t2 * math.Sqrt(t2)) * e
		out.dr += w * pre * (1 + t3) * s * dx
		out.dgl += w * pre * (((2-x*x)*gl+3*x*gr-t3*x*d)/sg - 0.25*(1+t3)*r*r*gl*s*dx/g)
		out.dgr += w * pre * ((3*x*gl+(2*x*x-1)*gr+t3*d)/sg - 0.25*(1+t3)*r*r*gr*s*dx/g)
	}
	return out
}

func (AsymmetricResonant) value(params []float64, g float64) float64 {
	in := arIntegrate(params, g, false)
	return params[arNorm] * in.p / (g * math.Sqrt(g))
}

func (m AsymmetricResonant) Resid(params []float64, p fit.Point) float64 {
	return m.value(params, p.X) - p.F
}

func (m AsymmetricResonant) Jacobian(params []float64, p fit.Point, jac []float64) {
	m.ResidJacobian(params, p, jac)
}

// ResidJacobian evaluates all four integrals in one pass over the nodes.
func (AsymmetricResonant) ResidJacobian(params []float64, p fit.Point, jac []float64) float64 {
	g := p.X
	gl, gr, r, norm := params[arGammaL], params[arGammaR], params[arR], params[arNorm]
	in := arIntegrate(params, g, true)
	g32 := g * math.Sqrt(g)
	jac[arGammaL] = norm / g32 * in.dgl
	jac[arGammaR] = norm / g32 * in.dgr
	jac[arR] = -0.25 * norm * r * in.dr * (gl*gl + gr*gr) / (g * g32)
	jac[arNorm] = in.p / g32
	return norm*in.p/g32 - p.F
}

func (AsymmetricResonant) DefaultGuesses() [][]float64 {
	gammas := []float64{5, 10, 20, 30, 40}
	var out [][]float64
	for _, gl := range gammas {
		for _, gr := range gammas {
			for _, r := range []float64{0.1, 0.5, 1, 2, 10} {
				out = append(out, []float64{gl, gr, r, 1})
			}
		}
	}
	return out
}

func (m AsymmetricResonant) InitialGuess(values map[string]float64) ([]float64, error) {
	return fit.Guess(m.ParamNames(), normDefault, values)
}

func (m AsymmetricResonant) Format(params []float64) string {
	return fit.FormatParams(m.ParamNames(), params)
}

// ProcessFitParameters makes both couplings and r positive and orders the
// couplings so that γL ≤ γR.
func (AsymmetricResonant) ProcessFitParameters(params []float64) {
	if params[arGammaL] < 0 && params[arGammaR] < 0 {
		params[arGammaL] = -params[arGammaL]
		params[arGammaR] = -params[arGammaR]
	}
	if params[arGammaL] > params[arGammaR] {
		params[arGammaL], params[arGammaR] = params[arGammaR], params[arGammaL]
	}
	params[arR] = math.Abs(params[arR])
}
