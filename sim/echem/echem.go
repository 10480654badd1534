// Package echem holds single-molecule electrochemistry models: the
// potentials at which one molecule transfers an electron during a sweep.
package echem

import (
	"math"

	"github.com/molstat/molstat/sim"
)

// ForwardETPotentialModel computes the forward-sweep transfer potential.
type ForwardETPotentialModel interface {
	ForwardETP(params []float64) (float64, error)
}

// BackwardETPotentialModel computes the return-sweep transfer potential.
type BackwardETPotentialModel interface {
	BackwardETP(params []float64) (float64, error)
}

// RedoxETPotentialModel computes the equilibrium redox potential.
type RedoxETPotentialModel interface {
	RedoxETP(params []float64) (float64, error)
}

var (
	// ForwardETPotential is the electron-transfer potential on the forward sweep.
	ForwardETPotential = sim.NewObservable("ForwardETPotential", ForwardETPotentialModel.ForwardETP)

	// BackwardETPotential is the electron-transfer potential on the return sweep.
	BackwardETPotential = sim.NewObservable("BackwardETPotential", BackwardETPotentialModel.BackwardETP)

	// RedoxETPotential is the equilibrium redox potential.
	RedoxETPotential = sim.NewObservable("RedoxETPotential", RedoxETPotentialModel.RedoxETP)
)

// Nernstian is a reaction fast enough to stay at equilibrium: both sweeps
// transfer at eref - ln(ab/af).
type Nernstian struct{}

const (
	indexEref = 0
	indexAf   = 1
	indexAb   = 2
)

func (Nernstian) Parameters() []string { return []string{"eref", "af", "ab"} }

func (Nernstian) RedoxETP(p []float64) (float64, error) {
	return p[indexEref] - math.Log(p[indexAb]/p[indexAf]), nil
}

func (n Nernstian) ForwardETP(p []float64) (float64, error) { return n.RedoxETP(p) }

func (n Nernstian) BackwardETP(p []float64) (float64, error) { return n.RedoxETP(p) }

// Register adds the electrochemistry models and observables to c.
func Register(c *sim.Catalog) error {
	if err := c.RegisterModel("NernstianReaction", func() sim.Model { return Nernstian{} }); err != nil {
		return err
	}
	for _, o := range []*sim.Observable{ForwardETPotential, BackwardETPotential, RedoxETPotential} {
		if err := c.RegisterObservable(o); err != nil {
			return err
		}
	}
	return nil
}
