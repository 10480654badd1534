// Package transport provides fit models for conductance histograms of
// single-molecule junctions. Conductances are in units of G0 and must lie
// in (0, 1).
package transport

import (
	"math"

	"github.com/molstat/molstat/fit"
)

var normDefault = map[string]float64{"norm": 1}

// SymmetricResonant is the line shape of resonant tunneling through one
// symmetrically coupled level:
//
//	P(g) = norm / sqrt(g³(1-g)) · exp(-γ²(1-g)/(2g))
//
// The residual is scaled by 1/f because the data span several orders of
// magnitude near the singularity at g → 0.
type SymmetricResonant struct{}

const (
	srGamma = iota
	srNorm
)

func (SymmetricResonant) NumParams() int       { return 2 }
func (SymmetricResonant) ParamNames() []string { return []string{"gamma", "norm"} }

func (SymmetricResonant) value(params []float64, g float64) float64 {
	gamma := params[srGamma]
	return params[srNorm] / math.Sqrt(g*g*g*(1-g)) * math.Exp(-0.5*gamma*gamma*(1-g)/g)
}

func (m SymmetricResonant) Resid(params []float64, p fit.Point) float64 {
	return (m.value(params, p.X) - p.F) / p.F
}

func (SymmetricResonant) Jacobian(params []float64, p fit.Point, jac []float64) {
	g, gamma, norm := p.X, params[srGamma], params[srNorm]
	e := math.Exp(-0.5 * gamma * gamma * (1 - g) / g)
	jac[srGamma] = -gamma * norm * math.Sqrt((1-g)/g) * e / (g * g) / p.F
	jac[srNorm] = e / math.Sqrt(g*g*g*(1-g)) / p.F
}

func (SymmetricResonant) DefaultGuesses() [][]float64 {
	var out [][]float64
	for _, gamma := range []float64{5, 10, 20, 35, 50} {
		out = append(out, []float64{gamma, 1})
	}
	return out
}

func (m SymmetricResonant) InitialGuess(values map[string]float64) ([]float64, error) {
	return fit.Guess(m.ParamNames(), normDefault, values)
}

func (m SymmetricResonant) Format(params []float64) string {
	return fit.FormatParams(m.ParamNames(), params)
}

// ProcessFitParameters makes gamma positive; only γ² enters the model.
func (SymmetricResonant) ProcessFitParameters(params []float64) {
	params[srGamma] = math.Abs(params[srGamma])
}

// SymmetricNonresonant is the line shape of off-resonant tunneling through
// one symmetrically coupled level, with cε = ε/σ and cγ = γ/σ:
//
//	P(g) = norm / sqrt(g(1-g)³) · exp(-(cε√g - cγ√(1-g))² / (2(1-g)))
type SymmetricNonresonant struct{}

const (
	snCEpsilon = iota
	snCGamma
	snNorm
)

func (SymmetricNonresonant) NumParams() int { return 3 }

func (SymmetricNonresonant) ParamNames() []string {
	return []string{"cepsilon", "cgamma", "norm"}
}

func (SymmetricNonresonant) value(params []float64, g float64) float64 {
	cd := params[snCEpsilon]*math.Sqrt(g) - params[snCGamma]*math.Sqrt(1-g)
	e := math.Exp(-0.5 * cd * cd / (1 - g))
	return params[snNorm] / math.Sqrt(g*(1-g)*(1-g)*(1-g)) * e
}

func (m SymmetricNonresonant) Resid(params []float64, p fit.Point) float64 {
	return m.value(params, p.X) - p.F
}

func (SymmetricNonresonant) Jacobian(params []float64, p fit.Point, jac []float64) {
	g, norm := p.X, params[snNorm]
	cd := params[snCEpsilon]*math.Sqrt(g) - params[snCGamma]*math.Sqrt(1-g)
	e := math.Exp(-0.5 * cd * cd / (1 - g))
	jac[snCEpsilon] = -norm * cd * e / ((1 - g) * (1 - g) * math.Sqrt(1-g))
	jac[snCGamma] = norm * cd * e / ((1 - g) * (1 - g) * math.Sqrt(g))
	jac[snNorm] = e / ((1 - g) * math.Sqrt(g*(1-g)))
}

func (SymmetricNonresonant) DefaultGuesses() [][]float64 {
	var out [][]float64
	for _, ce := range []float64{50, 100, 200, 300, 400, 500} {
		for _, cg := range []float64{5, 10, 20, 30, 40, 50} {
			out = append(out, []float64{ce, cg, 1})
		}
	}
	return out
}

func (m SymmetricNonresonant) InitialGuess(values map[string]float64) ([]float64, error) {
	return fit.Guess(m.ParamNames(), normDefault, values)
}

func (m SymmetricNonresonant) Format(params []float64) string {
	return fit.FormatParams(m.ParamNames(), params)
}

// ProcessFitParameters flips the pair (cε, cγ) when both are negative,
// which leaves the line shape unchanged.
func (SymmetricNonresonant) ProcessFitParameters(params []float64) {
	if params[snCEpsilon] < 0 && params[snCGamma] < 0 {
		params[snCEpsilon] = -params[snCEpsilon]
		params[snCGamma] = -params[snCGamma]
	}
}

func (SymmetricNonresonant) IsGoodFit(params []float64) bool {
	return params[snCEpsilon] > 0 && params[snCGamma] > 0
}

// Interference is the line shape of a junction dominated by destructive
// interference:
//
//	P(g) = norm / √g · exp(-cω² g / 2)
//
// Residuals are scaled by 1/f as for SymmetricResonant.
type Interference struct{}

const (
	ifCOmega = iota
	ifNorm
)

func (Interference) NumParams() int       { return 2 }
func (Interference) ParamNames() []string { return []string{"comega", "norm"} }

func (Interference) value(params []float64, g float64) float64 {
	c := params[ifCOmega]
	return params[ifNorm] / math.Sqrt(g) * math.Exp(-0.5*c*c*g)
}

func (m Interference) Resid(params []float64, p fit.Point) float64 {
	return (m.value(params, p.X) - p.F) / p.F
}

func (Interference) Jacobian(params []float64, p fit.Point, jac []float64) {
	g, c, norm := p.X, params[ifCOmega], params[ifNorm]
	e := math.Exp(-0.5 * c * c * g)
	jac[ifCOmega] = -norm * c * math.Sqrt(g) * e / p.F
	jac[ifNorm] = e / math.Sqrt(g) / p.F
}

func (Interference) DefaultGuesses() [][]float64 {
	return [][]float64{{1, 1}, {10, 1}, {100, 1}}
}

func (m Interference) InitialGuess(values map[string]float64) ([]float64, error) {
	return fit.Guess(m.ParamNames(), normDefault, values)
}

func (m Interference) Format(params []float64) string {
	return fit.FormatParams(m.ParamNames(), params)
}

func (Interference) ProcessFitParameters(params []float64) {
	params[ifCOmega] = math.Abs(params[ifCOmega])
}
