package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/molstat/molstat/sim/histogram"
)

// Runner repeats Simulate for a number of trials and collects the results
// into one histogram axis per bound observable.
type Runner struct {
	Trials  int
	Workers int
	Key     SimulationKey
}

// RunResult holds the collected, not yet binned, samples of a run.
type RunResult struct {
	Histogram *histogram.Histogram
	Trials    int
	// Skipped counts trials whose parameters produced no observable.
	Skipped int
}

// Run executes the trials. With one worker the trial stream is drawn from
// the master seed; with several, trials are split as evenly as possible and
// each worker draws from its own subsystem stream into its own histogram.
// Partial histograms are merged in worker order. The first observable error
// other than ErrNoObservableProduced cancels the run.
func (r Runner) Run(ctx context.Context, s *Simulator) (*RunResult, error) {
	if r.Trials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", r.Trials)
	}
	if s.NumObservables() == 0 {
		return nil, ErrNoObservables
	}
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > r.Trials {
		workers = r.Trials
	}

	prng := NewPartitionedRNG(r.Key)
	rngs := make([]*rand.Rand, workers)
	for i := range rngs {
		if workers == 1 {
			rngs[i] = prng.ForSubsystem(SubsystemTrials)
		} else {
			rngs[i] = prng.ForSubsystem(SubsystemWorker(i))
		}
	}

	partials := make([]*histogram.Histogram, workers)
	skipped := make([]int, workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		n := r.Trials / workers
		if i < r.Trials%workers {
			n++
		}
		h, err := histogram.New(s.NumObservables())
		if err != nil {
			return nil, err
		}
		partials[i] = h
		g.Go(func() error {
			sk, err := runTrials(gctx, s, rngs[i], n, h)
			skipped[i] = sk
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := partials[0]
	total := skipped[0]
	for i := 1; i < workers; i++ {
		if err := merged.Absorb(partials[i]); err != nil {
			return nil, err
		}
		total += skipped[i]
	}
	if total > 0 {
		logrus.Infof("%d of %d trials produced no observable", total, r.Trials)
	}
	return &RunResult{Histogram: merged, Trials: r.Trials, Skipped: total}, nil
}

func runTrials(ctx context.Context, s *Simulator, rng *rand.Rand, n int, h *histogram.Histogram) (int, error) {
	skipped := 0
	for t := 0; t < n; t++ {
		if t%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return skipped, err
			}
		}
		obs, err := s.Simulate(rng)
		if errors.Is(err, ErrNoObservableProduced) {
			skipped++
			continue
		}
		if err != nil {
			return skipped, err
		}
		if err := h.AddData(obs); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}
