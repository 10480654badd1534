package sim

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/molstat/molstat/sim/histogram"
)

// Summary holds descriptive statistics of one observable over a run.
type Summary struct {
	Observable string
	Count      int
	Mean       float64
	StdDev     float64
	Min        float64
	Median     float64
	Max        float64
	Q25, Q75   float64
}

func (s Summary) String() string {
	return fmt.Sprintf("%s: n=%d mean=%.6e sd=%.6e min=%.6e q25=%.6e median=%.6e q75=%.6e max=%.6e",
		s.Observable, s.Count, s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max)
}

// Summarize computes per-axis statistics of the samples in h, labelling each
// axis with the matching observable.
func Summarize(h *histogram.Histogram, observables []*Observable) ([]Summary, error) {
	if len(observables) != h.Dims() {
		return nil, fmt.Errorf("%d observables for %d axes: %w", len(observables), h.Dims(), histogram.ErrDimensionMismatch)
	}
	out := make([]Summary, h.Dims())
	for i, obs := range observables {
		data, err := h.Column(i)
		if err != nil {
			return nil, err
		}
		s := Summary{Observable: obs.Name(), Count: len(data)}
		if len(data) == 0 {
			out[i] = s
			continue
		}
		if s.Mean, err = stats.Mean(data); err != nil {
			return nil, err
		}
		if s.StdDev, err = stats.StandardDeviation(data); err != nil {
			return nil, err
		}
		if s.Min, err = stats.Min(data); err != nil {
			return nil, err
		}
		if s.Max, err = stats.Max(data); err != nil {
			return nil, err
		}
		if s.Median, err = stats.Median(data); err != nil {
			return nil, err
		}
		if s.Q25, err = stats.Percentile(data, 25); err != nil {
			return nil, err
		}
		if s.Q75, err = stats.Percentile(data, 75); err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
