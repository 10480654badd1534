package transport

import "github.com/molstat/molstat/sim"

// Capability interfaces. A model computes an observable by implementing the
// matching method; parameters arrive as the model's flat vector, which for a
// channel starts with the junction's Fermi level and bias.

// AppliedBiasModel is implemented by models that report the bias they were
// sampled at.
type AppliedBiasModel interface {
	AppBias(params []float64) (float64, error)
}

// ElectricCurrentModel computes the current through the junction.
type ElectricCurrentModel interface {
	ECurrent(params []float64) (float64, error)
}

// StaticConductanceModel computes I/V.
type StaticConductanceModel interface {
	StaticG(params []float64) (float64, error)
}

// ZeroBiasConductanceModel computes the linear-response conductance.
type ZeroBiasConductanceModel interface {
	ZeroBiasG(params []float64) (float64, error)
}

// DifferentialConductanceModel computes dI/dV.
type DifferentialConductanceModel interface {
	DiffG(params []float64) (float64, error)
}

// SeebeckCoefficientModel computes the thermopower.
type SeebeckCoefficientModel interface {
	SeebeckS(params []float64) (float64, error)
}

// DisplacementModel reports the electrode separation.
type DisplacementModel interface {
	DispW(params []float64) (float64, error)
}

var (
	// AppliedBias is the bias across the junction, in volts.
	AppliedBias = sim.NewObservable("AppliedBias", AppliedBiasModel.AppBias)

	// ElectricCurrent is the current through the junction, in amperes.
	ElectricCurrent = sim.NewObservable("ElectricCurrent", ElectricCurrentModel.ECurrent)

	// StaticConductance is I/V in units of the conductance quantum.
	StaticConductance = sim.NewObservable("StaticConductance", StaticConductanceModel.StaticG)

	// ZeroBiasConductance is the linear-response conductance, in units of G0.
	ZeroBiasConductance = sim.NewObservable("ZeroBiasConductance", ZeroBiasConductanceModel.ZeroBiasG)

	// DifferentialConductance is dI/dV in units of G0.
	DifferentialConductance = sim.NewObservable("DifferentialConductance", DifferentialConductanceModel.DiffG)

	// SeebeckCoefficient is the thermopower up to the factor π²k²T/3e.
	SeebeckCoefficient = sim.NewObservable("SeebeckCoefficient", SeebeckCoefficientModel.SeebeckS)

	// Displacement is the electrode separation.
	Displacement = sim.NewObservable("Displacement", DisplacementModel.DispW)
)

// Observables lists every transport observable.
var Observables = []*sim.Observable{
	AppliedBias,
	ElectricCurrent,
	StaticConductance,
	ZeroBiasConductance,
	DifferentialConductance,
	SeebeckCoefficient,
	Displacement,
}
