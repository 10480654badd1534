package fit

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// DefaultMethod is the optimization method used when Options.Method is
// empty. Newton here uses the Gauss-Newton Hessian JᵀJ.
const DefaultMethod = "newton"

// DefaultMaxIterations bounds the major iterations of each start.
const DefaultMaxIterations = 1000

// methods maps method names to fresh gonum optimizers. Optimizers keep
// state, so each start gets its own.
var methods = map[string]func() optimize.Method{
	"newton":     func() optimize.Method { return &optimize.Newton{} },
	"bfgs":       func() optimize.Method { return &optimize.BFGS{} },
	"lbfgs":      func() optimize.Method { return &optimize.LBFGS{} },
	"neldermead": func() optimize.Method { return &optimize.NelderMead{} },
	"gradient":   func() optimize.Method { return &optimize.GradientDescent{} },
}

// Methods returns the accepted method names, sorted.
func Methods() []string {
	out := make([]string, 0, len(methods))
	for k := range methods {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Options controls Solve.
type Options struct {
	Method        string
	MaxIterations int
}

// Result is the best fit over all starts.
type Result struct {
	Params []float64
	// StdErr holds one standard error per parameter, scaled by
	// max(1, χ/√dof). Entries are NaN when JᵀJ is singular.
	StdErr []float64
	// Resid is the Euclidean norm of the residual vector.
	Resid float64
	// Start is the index of the guess that produced the fit.
	Start int
	// Status is the optimizer's termination status for that start.
	Status optimize.Status
	// Starts records every start in order.
	Starts []StartRecord
}

// Solve fits m to points from each guess in turn and returns the fit with
// the smallest residual norm. With no guesses the model's defaults are used.
// Starts that fail or that the model rejects as unphysical are skipped.
func Solve(m Model, points []Point, guesses [][]float64, opts Options) (*Result, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	name := strings.ToLower(opts.Method)
	if name == "" {
		name = DefaultMethod
	}
	newMethod, ok := methods[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", opts.Method, ErrUnknownMethod)
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	if len(guesses) == 0 {
		guesses = m.DefaultGuesses()
	}
	n := m.NumParams()
	for i, g := range guesses {
		if len(g) != n {
			return nil, fmt.Errorf("guess %d has %d values, model has %d parameters: %w", i, len(g), n, ErrGuessLength)
		}
	}

	p := newProblem(m, points)
	var best *Result
	starts := make([]StartRecord, 0, len(guesses))
	for i, g := range guesses {
		rec := p.start(i, g, maxIter, newMethod())
		starts = append(starts, rec.StartRecord)
		if rec.Outcome != OutcomeAccepted {
			logrus.Debugf("fit start %d %s: %s", i, rec.Outcome, rec.Reason)
			continue
		}
		logrus.Debugf("fit start %d: resid=%.6e %s", i, rec.Resid, m.Format(rec.Params))
		if best == nil || rec.Resid < best.Resid {
			best = &Result{Params: rec.Params, Resid: rec.Resid, Start: i, Status: rec.status}
		}
	}
	if best == nil {
		return nil, ErrNoFit
	}
	best.StdErr = p.stdErr(best.Params, best.Resid)
	best.Starts = starts
	return best, nil
}

type startResult struct {
	StartRecord
	status optimize.Status
}

// start runs the optimizer from one guess and classifies the outcome.
func (p *problem) start(i int, guess []float64, maxIter int, method optimize.Method) startResult {
	rec := startResult{StartRecord: StartRecord{Index: i, Guess: append([]float64(nil), guess...)}}
	settings := &optimize.Settings{
		MajorIterations: maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-14,
			Relative:   1e-10,
			Iterations: 20,
		},
	}
	res, err := optimize.Minimize(p.problem(), guess, settings, method)
	if res == nil {
		rec.Outcome, rec.Reason = OutcomeFailed, "no result"
		if err != nil {
			rec.Reason = err.Error()
		}
		return rec
	}
	if err != nil {
		// a finite point reached before the error is still usable
		logrus.Debugf("fit start %d stopped early: %v", i, err)
	}
	rec.status = res.Status
	x := append([]float64(nil), res.X...)
	if !allFinite(x) {
		rec.Outcome, rec.Reason = OutcomeFailed, "diverged"
		return rec
	}
	norm := floats.Norm(p.residuals(x), 2)
	if math.IsNaN(norm) || math.IsInf(norm, 0) {
		rec.Outcome, rec.Reason = OutcomeFailed, "residual is not finite"
		return rec
	}
	if pp, ok := p.m.(ParameterProcessor); ok {
		pp.ProcessFitParameters(x)
	}
	rec.Params, rec.Resid = x, norm
	if gc, ok := p.m.(GoodFitChecker); ok && !gc.IsGoodFit(x) {
		rec.Outcome, rec.Reason = OutcomeRejected, p.m.Format(x)
		return rec
	}
	rec.Outcome = OutcomeAccepted
	return rec
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// problem evaluates residuals and Jacobians over a fixed data set.
type problem struct {
	m      Model
	points []Point
	rj     ResidJacobianer
}

func newProblem(m Model, points []Point) *problem {
	p := &problem{m: m, points: points}
	p.rj, _ = m.(ResidJacobianer)
	return p
}

func (p *problem) residuals(x []float64) []float64 {
	r := make([]float64, len(p.points))
	for i, pt := range p.points {
		r[i] = p.m.Resid(x, pt)
	}
	return r
}

// evaluate returns the residual vector and the Jacobian at x.
func (p *problem) evaluate(x []float64) (*mat.VecDense, *mat.Dense) {
	n := p.m.NumParams()
	r := mat.NewVecDense(len(p.points), nil)
	jac := mat.NewDense(len(p.points), n, nil)
	row := make([]float64, n)
	for i, pt := range p.points {
		if p.rj != nil {
			r.SetVec(i, p.rj.ResidJacobian(x, pt, row))
		} else {
			r.SetVec(i, p.m.Resid(x, pt))
			p.m.Jacobian(x, pt, row)
		}
		jac.SetRow(i, row)
	}
	return r, jac
}

// problem returns the gonum objective ½‖r‖² with gradient Jᵀr and
// Gauss-Newton Hessian JᵀJ.
func (p *problem) problem() optimize.Problem {
	return optimize.Problem{
		Func: func(x []float64) float64 {
			r := p.residuals(x)
			return 0.5 * floats.Dot(r, r)
		},
		Grad: func(grad, x []float64) {
			r, jac := p.evaluate(x)
			g := mat.NewVecDense(len(grad), grad)
			g.MulVec(jac.T(), r)
		},
		Hess: func(hess *mat.SymDense, x []float64) {
			_, jac := p.evaluate(x)
			hess.SymOuterK(1, jac.T())
		},
	}
}

// stdErr returns the parameter standard errors from the covariance
// (JᵀJ)⁻¹ scaled by max(1, χ/√dof).
func (p *problem) stdErr(x []float64, chi float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	_, jac := p.evaluate(x)
	jtj := mat.NewSymDense(n, nil)
	jtj.SymOuterK(1, jac.T())

	var chol mat.Cholesky
	var cov mat.SymDense
	if !chol.Factorize(jtj) || chol.InverseTo(&cov) != nil {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	rel := 1.0
	if dof := len(p.points) - n; dof > 0 {
		rel = math.Max(1, chi/math.Sqrt(float64(dof)))
	}
	for i := range out {
		out[i] = rel * math.Sqrt(cov.At(i, i))
	}
	return out
}
