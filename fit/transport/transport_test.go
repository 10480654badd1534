package transport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/molstat/molstat/fit"
)

type lineShape interface {
	fit.Model
	value(params []float64, g float64) float64
}

func TestJacobians_MatchFiniteDifferences(t *testing.T) {
	tests := []struct {
		name   string
		model  lineShape
		params []float64
		gs     []float64
	}{
		{"symmetric resonant", SymmetricResonant{}, []float64{3, 2}, []float64{0.1, 0.4, 0.8}},
		{"symmetric nonresonant", SymmetricNonresonant{}, []float64{150, 20, 1.5}, []float64{0.01, 0.018, 0.03}},
		{"asymmetric resonant", AsymmetricResonant{}, []float64{3, 5, 0.8, 1.3}, []float64{0.1, 0.3, 0.7}},
		{"interference", Interference{}, []float64{7, 0.5}, []float64{0.02, 0.2, 0.6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, g := range tt.gs {
				// F is chosen away from the model value so the residual is not zero
				pt := fit.Point{X: g, F: 0.7 * tt.model.value(tt.params, g)}
				require.Greater(t, pt.F, 0.0)

				jac := make([]float64, tt.model.NumParams())
				tt.model.Jacobian(tt.params, pt, jac)
				want := fd.Gradient(nil, func(x []float64) float64 {
					return tt.model.Resid(x, pt)
				}, tt.params, &fd.Settings{Formula: fd.Central, Step: 1e-6})

				for i := range jac {
					scale := math.Max(1e-8, math.Abs(want[i]))
					assert.InDelta(t, want[i], jac[i], 1e-5*scale+1e-7,
						"g=%g d/d%s", g, tt.model.ParamNames()[i])
				}
			}
		})
	}
}

func TestAsymmetricResonant_ResidJacobianAgrees(t *testing.T) {
	m := AsymmetricResonant{}
	params := []float64{2, 6, 0.5, 1}
	pt := fit.Point{X: 0.25, F: 0.4}
	jac := make([]float64, 4)
	r := m.ResidJacobian(params, pt, jac)
	assert.InDelta(t, m.Resid(params, pt), r, 1e-14)
}

func TestAsymmetricResonant_SymmetricInCouplings(t *testing.T) {
	// BDD: exchanging the two couplings leaves the line shape unchanged
	m := AsymmetricResonant{}
	for _, g := range []float64{0.05, 0.3, 0.9} {
		a := m.value([]float64{2, 7, 0.6, 1}, g)
		b := m.value([]float64{7, 2, 0.6, 1}, g)
		assert.InDelta(t, a, b, 1e-6*math.Abs(a))
	}
}

func TestProcessFitParameters(t *testing.T) {
	tests := []struct {
		name  string
		model fit.ParameterProcessor
		in    []float64
		want  []float64
	}{
		{"resonant gamma", SymmetricResonant{}, []float64{-4, 2}, []float64{4, 2}},
		{"nonresonant pair", SymmetricNonresonant{}, []float64{-100, -10, 1}, []float64{100, 10, 1}},
		{"nonresonant mixed", SymmetricNonresonant{}, []float64{-100, 10, 1}, []float64{-100, 10, 1}},
		{"asymmetric order and sign", AsymmetricResonant{}, []float64{-9, -3, -0.5, 1}, []float64{3, 9, 0.5, 1}},
		{"interference", Interference{}, []float64{-7, 1}, []float64{7, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]float64(nil), tt.in...)
			tt.model.ProcessFitParameters(got)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.False(t, SymmetricNonresonant{}.IsGoodFit([]float64{-100, 10, 1}))
	assert.True(t, SymmetricNonresonant{}.IsGoodFit([]float64{100, 10, 1}))
}

func TestDefaultGuesses(t *testing.T) {
	tests := []struct {
		model fit.Model
		want  int
	}{
		{SymmetricResonant{}, 5},
		{SymmetricNonresonant{}, 36},
		{AsymmetricResonant{}, 125},
		{Interference{}, 3},
	}
	for _, tt := range tests {
		guesses := tt.model.DefaultGuesses()
		assert.Len(t, guesses, tt.want)
		for _, g := range guesses {
			assert.Len(t, g, tt.model.NumParams())
			assert.Equal(t, 1.0, g[len(g)-1], "norm starts at 1")
		}
	}
}

func TestInitialGuess(t *testing.T) {
	g, err := SymmetricNonresonant{}.InitialGuess(map[string]float64{"cepsilon": 100, "cgamma": 12})
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 12, 1}, g)

	_, err = AsymmetricResonant{}.InitialGuess(map[string]float64{"gammal": 1, "r": 2})
	assert.ErrorIs(t, err, fit.ErrMissingGuess)
	assert.Contains(t, err.Error(), "gammar")
}

func synthetic(m lineShape, params []float64, gs []float64) []fit.Point {
	pts := make([]fit.Point, len(gs))
	for i, g := range gs {
		pts[i] = fit.Point{X: g, F: m.value(params, g)}
	}
	return pts
}

func grid(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

func TestSolve_RecoversParameters(t *testing.T) {
	tests := []struct {
		name    string
		model   lineShape
		truth   []float64
		gs      []float64
		guesses [][]float64
	}{
		{"symmetric resonant", SymmetricResonant{}, []float64{3, 2.5}, grid(0.1, 0.95, 25), nil},
		{"interference", Interference{}, []float64{7, 0.5}, grid(0.02, 0.6, 25), nil},
		{"symmetric nonresonant", SymmetricNonresonant{}, []float64{150, 20, 1.2}, grid(0.008, 0.03, 15),
			[][]float64{{140, 18, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := fit.Solve(tt.model, synthetic(tt.model, tt.truth, tt.gs), tt.guesses, fit.Options{})
			require.NoError(t, err)
			for i, want := range tt.truth {
				assert.InDelta(t, want, res.Params[i], 1e-3*math.Abs(want), tt.model.ParamNames()[i])
			}
			assert.Less(t, res.Resid, 1e-4)
		})
	}
}

func TestRegister(t *testing.T) {
	c := fit.NewCatalog()
	require.NoError(t, Register(c))
	assert.Equal(t, []string{"AsymmetricResonant", "Interference", "SymmetricNonresonant", "SymmetricResonant"}, c.Names())

	m, err := c.New("symmetricresonant")
	require.NoError(t, err)
	assert.Equal(t, SymmetricResonant{}, m)
	assert.ErrorIs(t, Register(c), fit.ErrDuplicateName)
}
