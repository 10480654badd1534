package transport

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// barrierDecay is sqrt(2m)/ħ for an electron, in 1/(nm·sqrt(eV)).
const barrierDecay = 5.12317

// barrierQuadPoints is the Gauss-Legendre order used for bias windows.
const barrierQuadPoints = 64

// RectangularBarrier is tunneling through a vacuum barrier of the given
// height (eV) and width (nm), measured from the bottom of the band.
type RectangularBarrier struct {
	Channel
}

const (
	barrierHeight = 2
	barrierWidth  = 3
)

func (RectangularBarrier) Parameters() []string { return []string{"height", "width"} }

// barrierTransmission is the textbook transmission of a rectangular barrier;
// above the barrier the evanescent sinh becomes an oscillating sin.
func barrierTransmission(e, h, w float64) float64 {
	if e <= 0 {
		return 0
	}
	switch {
	case e < h:
		s := math.Sinh(barrierDecay*math.Sqrt(h-e)*w) * h
		m := 4 * e * (h - e)
		return m / (m + s*s)
	case e > h:
		s := math.Sin(barrierDecay*math.Sqrt(e-h)*w) * h
		m := 4 * e * (e - h)
		return m / (m + s*s)
	default:
		k := barrierDecay * w
		return 4 / (4 + h*k*k)
	}
}

func (RectangularBarrier) ZeroBiasG(p []float64) (float64, error) {
	return barrierTransmission(p[indexEF], p[barrierHeight], p[barrierWidth]), nil
}

// StaticG averages the transmission over the bias window.
func (m RectangularBarrier) StaticG(p []float64) (float64, error) {
	ef, v := p[indexEF], p[indexV]
	if v == 0 {
		return m.ZeroBiasG(p)
	}
	h, w := p[barrierHeight], p[barrierWidth]
	integral := quad.Fixed(func(e float64) float64 {
		return barrierTransmission(e, h, w)
	}, ef-0.5*v, ef+0.5*v, barrierQuadPoints, quad.Legendre{}, 0)
	return integral / v, nil
}

func (RectangularBarrier) DispW(p []float64) (float64, error) { return p[barrierWidth], nil }
