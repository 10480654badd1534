package transport

import (
	"fmt"

	"github.com/molstat/molstat/sim"
)

const (
	// G0 is the conductance quantum 2e²/h in siemens. With energies in eV it
	// also converts an integrated transmission into a current in amperes.
	G0 = 7.748091729e-5

	indexEF = 0
	indexV  = 1
)

// ChannelKind is the kind of every conduction channel. Channels only make
// sense inside a Junction.
const ChannelKind sim.ModelKind = "transport.channel"

// Channel is embedded by every channel model.
type Channel struct{}

func (Channel) Kind() sim.ModelKind { return ChannelKind }

// Junction is a metal-molecule-metal junction: a Fermi level and an applied
// bias shared by one or more independent channels. Currents and conductances
// of the channels add.
type Junction struct {
	sim.Composite
}

// NewJunction returns an unconfigured junction.
func NewJunction() *Junction {
	j := &Junction{}
	j.Combine(ElectricCurrent, sim.Sum)
	j.Combine(StaticConductance, sim.Sum)
	j.Combine(ZeroBiasConductance, sim.Sum)
	j.Combine(DifferentialConductance, sim.Sum)
	j.Require(SeebeckCoefficient, ZeroBiasConductance, SeebeckCoefficient)
	j.Combine(Displacement, mean)
	return j
}

func mean(values []float64) float64 {
	return sim.Sum(values) / float64(len(values))
}

func (*Junction) Parameters() []string { return []string{"ef", "v"} }

func (*Junction) SubmodelKind() sim.ModelKind { return ChannelKind }

func (*Junction) AppBias(p []float64) (float64, error) { return p[indexV], nil }

func (j *Junction) ECurrent(p []float64) (float64, error) {
	return j.Reduce(ElectricCurrent, p)
}

func (j *Junction) StaticG(p []float64) (float64, error) {
	return j.Reduce(StaticConductance, p)
}

func (j *Junction) ZeroBiasG(p []float64) (float64, error) {
	return j.Reduce(ZeroBiasConductance, p)
}

func (j *Junction) DiffG(p []float64) (float64, error) {
	return j.Reduce(DifferentialConductance, p)
}

// DispW is the mean electrode separation of the channels.
func (j *Junction) DispW(p []float64) (float64, error) {
	return j.Reduce(Displacement, p)
}

// SeebeckS weights each channel's Seebeck coefficient by its zero-bias
// conductance. A junction that does not conduct at zero bias has no
// thermopower.
func (j *Junction) SeebeckS(p []float64) (float64, error) {
	var sumG, sumGS float64
	for i := 0; i < j.NumSubmodels(); i++ {
		g, err := j.Evaluate(ZeroBiasConductance, p, i)
		if err != nil {
			return 0, err
		}
		s, err := j.Evaluate(SeebeckCoefficient, p, i)
		if err != nil {
			return 0, err
		}
		sumG += g
		sumGS += g * s
	}
	if sumG == 0 {
		return 0, fmt.Errorf("zero-bias conductance vanishes: %w", sim.ErrNoObservableProduced)
	}
	return sumGS / sumG, nil
}
