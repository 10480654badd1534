// Package fit fits line shapes to binned observable data by nonlinear least
// squares.
//
// A Model supplies residuals and their Jacobian for one data point. Solve
// minimizes the sum of squared residuals from several starting guesses and
// keeps the best result.
package fit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrGuessLength     = errors.New("initial guess has the wrong number of parameters")
	ErrMissingGuess    = errors.New("initial guess is missing a required parameter")
	ErrNoFit           = errors.New("no starting guess produced a fit")
	ErrNoPoints        = errors.New("no data points to fit")
	ErrUnknownFitModel = errors.New("unknown fit model")
	ErrUnknownMethod   = errors.New("unknown optimization method")
	ErrDuplicateName   = errors.New("fit model already registered")
)

// Point is one data point: the observable value X and the measured density F.
type Point struct {
	X float64
	F float64
}

// Model is a line shape with NumParams fit parameters.
type Model interface {
	NumParams() int
	ParamNames() []string
	// Resid returns the residual of the model at p.
	Resid(params []float64, p Point) float64
	// Jacobian writes the derivative of Resid with respect to each
	// parameter into jac, which has length NumParams.
	Jacobian(params []float64, p Point, jac []float64)
	DefaultGuesses() [][]float64
	InitialGuess(values map[string]float64) ([]float64, error)
	Format(params []float64) string
}

// ResidJacobianer is implemented by models that can evaluate the residual
// and Jacobian together more cheaply than separately.
type ResidJacobianer interface {
	ResidJacobian(params []float64, p Point, jac []float64) float64
}

// ParameterProcessor repairs equivalent parameter sets after a fit, for
// example by flipping the sign of parameters that enter squared.
type ParameterProcessor interface {
	ProcessFitParameters(params []float64)
}

// GoodFitChecker rejects fits whose parameters are unphysical.
type GoodFitChecker interface {
	IsGoodFit(params []float64) bool
}

// Guess builds an initial guess in the order of names. Each name is taken
// from values, then from defaults; a name in neither is an error.
func Guess(names []string, defaults, values map[string]float64) ([]float64, error) {
	out := make([]float64, len(names))
	var missing []string
	for i, n := range names {
		if v, ok := values[n]; ok {
			out[i] = v
		} else if v, ok := defaults[n]; ok {
			out[i] = v
		} else {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(missing, ", "), ErrMissingGuess)
	}
	return out, nil
}

// FormatParams renders "name=value" pairs in %.4e, separated by commas.
func FormatParams(names []string, params []float64) string {
	var b strings.Builder
	for i, n := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%.4e", n, params[i])
	}
	return b.String()
}

// Constructor returns a fresh fit model.
type Constructor func() Model

// Catalog maps case-insensitive names to fit models.
type Catalog struct {
	models map[string]Constructor
	names  map[string]string
}

func NewCatalog() *Catalog {
	return &Catalog{models: make(map[string]Constructor), names: make(map[string]string)}
}

// Register adds ctor under name.
func (c *Catalog) Register(name string, ctor Constructor) error {
	key := strings.ToLower(name)
	if _, dup := c.models[key]; dup {
		return fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	c.models[key] = ctor
	c.names[key] = name
	return nil
}

// New constructs the model registered under name.
func (c *Catalog) New(name string) (Model, error) {
	ctor, ok := c.models[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownFitModel)
	}
	return ctor(), nil
}

// Names returns the registered names, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
