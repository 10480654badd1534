package sim

import (
	"fmt"
	"math/rand"
)

// Simulator draws one parameter vector per trial from a full model and
// evaluates every bound observable on that same vector.
//
// Binding is not safe for concurrent use; once bound, Simulate may be called
// from many goroutines, each with its own RNG.
type Simulator struct {
	root  *Node
	slots []slot
}

type slot struct {
	obs *Observable
	fn  ObservableFunc
}

// NewSimulator wraps a built full model.
func NewSimulator(root *Node) (*Simulator, error) {
	if root == nil {
		return nil, fmt.Errorf("nil model: %w", ErrFullModelRequired)
	}
	if root.Kind() != FullModel {
		return nil, fmt.Errorf("model %s is %s: %w", root.Name(), root.Kind(), ErrFullModelRequired)
	}
	return &Simulator{root: root}, nil
}

// Model returns the simulated model.
func (s *Simulator) Model() *Node { return s.root }

// SetObservable binds obs to a slot. Slot may replace an existing binding or
// equal NumObservables to append; anything else is out of range. On error the
// previous binding is kept.
func (s *Simulator) SetObservable(slotIdx int, obs *Observable) error {
	if slotIdx < 0 || slotIdx > len(s.slots) {
		return fmt.Errorf("slot %d with %d bound: %w", slotIdx, len(s.slots), ErrSlotOutOfRange)
	}
	fn, err := s.root.ObservableFunc(obs)
	if err != nil {
		return err
	}
	if slotIdx == len(s.slots) {
		s.slots = append(s.slots, slot{obs: obs, fn: fn})
		return nil
	}
	s.slots[slotIdx] = slot{obs: obs, fn: fn}
	return nil
}

// NumObservables returns the number of bound slots.
func (s *Simulator) NumObservables() int { return len(s.slots) }

// Observables returns the bound observables in slot order.
func (s *Simulator) Observables() []*Observable {
	out := make([]*Observable, len(s.slots))
	for i, sl := range s.slots {
		out[i] = sl.obs
	}
	return out
}

// Simulate runs one trial. Errors raised by an observable are returned as is.
func (s *Simulator) Simulate(rng *rand.Rand) ([]float64, error) {
	if len(s.slots) == 0 {
		return nil, ErrNoObservables
	}
	params := s.root.GenerateParameters(rng)
	out := make([]float64, len(s.slots))
	for i, sl := range s.slots {
		v, err := sl.fn(params)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
