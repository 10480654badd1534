package sim

import (
	"fmt"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// RandomDistribution draws one real value per call from the caller's RNG.
// Implementations hold no mutable state, so one distribution may be shared
// by concurrent samplers as long as each uses its own RNG.
type RandomDistribution interface {
	Sample(rng *rand.Rand) float64
	String() string
}

// DistSpec describes a distribution by type name and positional arguments.
type DistSpec struct {
	Type string    `yaml:"type"`
	Args []float64 `yaml:"args"`
}

// ValidDistributions maps each accepted type name to its argument names.
var ValidDistributions = map[string][]string{
	"constant":  {"value"},
	"uniform":   {"lower", "upper"},
	"normal":    {"mean", "stdev"},
	"gaussian":  {"mean", "stdev"},
	"lognormal": {"zeta", "sigma"},
	"gamma":     {"shape", "scale"},
	"weibull":   {"shape", "scale"},
}

// ConstantDistribution always returns Value.
type ConstantDistribution struct {
	Value float64
}

func (d ConstantDistribution) Sample(*rand.Rand) float64 { return d.Value }

func (d ConstantDistribution) String() string {
	return fmt.Sprintf("constant (value = %g)", d.Value)
}

// UniformDistribution is uniform on [Lower, Upper).
type UniformDistribution struct {
	Lower, Upper float64
}

func (d UniformDistribution) Sample(rng *rand.Rand) float64 {
	return distuv.Uniform{Min: d.Lower, Max: d.Upper, Src: rng}.Rand()
}

func (d UniformDistribution) String() string {
	return fmt.Sprintf("uniform (lower = %g, upper = %g)", d.Lower, d.Upper)
}

// NormalDistribution is Gaussian with the given mean and standard deviation.
type NormalDistribution struct {
	Mean, Stdev float64
}

func (d NormalDistribution) Sample(rng *rand.Rand) float64 {
	return distuv.Normal{Mu: d.Mean, Sigma: d.Stdev, Src: rng}.Rand()
}

func (d NormalDistribution) String() string {
	return fmt.Sprintf("normal (mean = %g, stdev = %g)", d.Mean, d.Stdev)
}

// LognormalDistribution has ln(X) normal with mean Zeta and deviation Sigma.
type LognormalDistribution struct {
	Zeta, Sigma float64
}

func (d LognormalDistribution) Sample(rng *rand.Rand) float64 {
	return distuv.LogNormal{Mu: d.Zeta, Sigma: d.Sigma, Src: rng}.Rand()
}

func (d LognormalDistribution) String() string {
	return fmt.Sprintf("lognormal (zeta = %g, sigma = %g)", d.Zeta, d.Sigma)
}

// GammaDistribution uses the shape/scale parameterization.
type GammaDistribution struct {
	Shape, Scale float64
}

func (d GammaDistribution) Sample(rng *rand.Rand) float64 {
	// distuv.Gamma takes a rate
	return distuv.Gamma{Alpha: d.Shape, Beta: 1 / d.Scale, Src: rng}.Rand()
}

func (d GammaDistribution) String() string {
	return fmt.Sprintf("gamma (shape = %g, scale = %g)", d.Shape, d.Scale)
}

// WeibullDistribution uses the shape/scale parameterization.
type WeibullDistribution struct {
	Shape, Scale float64
}

func (d WeibullDistribution) Sample(rng *rand.Rand) float64 {
	return distuv.Weibull{K: d.Shape, Lambda: d.Scale, Src: rng}.Rand()
}

func (d WeibullDistribution) String() string {
	return fmt.Sprintf("weibull (shape = %g, scale = %g)", d.Shape, d.Scale)
}

// requireArgs checks the argument count for a distribution type.
func requireArgs(spec DistSpec, names []string) error {
	if len(spec.Args) != len(names) {
		return fmt.Errorf("%s distribution requires %d arguments (%s), got %d: %w",
			spec.Type, len(names), strings.Join(names, ", "), len(spec.Args), ErrInvalidDistribution)
	}
	return nil
}

func requirePositive(spec DistSpec, idx int, name string) error {
	if !(spec.Args[idx] > 0) {
		return fmt.Errorf("%s distribution requires %s > 0, got %g: %w",
			spec.Type, name, spec.Args[idx], ErrInvalidDistribution)
	}
	return nil
}

// NewDistribution creates a RandomDistribution from a DistSpec. Type names
// are case-insensitive.
func NewDistribution(spec DistSpec) (RandomDistribution, error) {
	spec.Type = strings.ToLower(spec.Type)
	names, ok := ValidDistributions[spec.Type]
	if !ok {
		return nil, fmt.Errorf("distribution type %q: %w", spec.Type, ErrInvalidDistribution)
	}
	if err := requireArgs(spec, names); err != nil {
		return nil, err
	}
	a := spec.Args

	switch spec.Type {
	case "constant":
		return ConstantDistribution{Value: a[0]}, nil

	case "uniform":
		if !(a[0] < a[1]) {
			return nil, fmt.Errorf("uniform distribution requires lower < upper, got [%g, %g]: %w", a[0], a[1], ErrInvalidDistribution)
		}
		return UniformDistribution{Lower: a[0], Upper: a[1]}, nil

	case "normal", "gaussian":
		if err := requirePositive(spec, 1, "stdev"); err != nil {
			return nil, err
		}
		return NormalDistribution{Mean: a[0], Stdev: a[1]}, nil

	case "lognormal":
		if err := requirePositive(spec, 1, "sigma"); err != nil {
			return nil, err
		}
		return LognormalDistribution{Zeta: a[0], Sigma: a[1]}, nil

	case "gamma":
		for i, n := range names {
			if err := requirePositive(spec, i, n); err != nil {
				return nil, err
			}
		}
		return GammaDistribution{Shape: a[0], Scale: a[1]}, nil

	default: // weibull
		for i, n := range names {
			if err := requirePositive(spec, i, n); err != nil {
				return nil, err
			}
		}
		return WeibullDistribution{Shape: a[0], Scale: a[1]}, nil
	}
}
