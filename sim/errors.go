package sim

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDistribution    = errors.New("missing distribution")
	ErrIncompatibleObservable = errors.New("incompatible observable")
	ErrNoObservables          = errors.New("no observables bound to simulator")
	ErrNotComposite           = errors.New("model does not accept submodels")
	ErrIncompatibleSubmodel   = errors.New("submodel kind not accepted by composite")
	ErrNoSubmodels            = errors.New("composite model has no submodels")
	ErrFullModelRequired      = errors.New("simulator requires a full model")

	// ErrNoObservableProduced is returned by an observable when the sampled
	// parameters do not emit the observable at all. Runners discard the trial.
	ErrNoObservableProduced = errors.New("no observable produced")

	ErrUnknownParameter    = errors.New("unknown parameter")
	ErrDuplicateParameter  = errors.New("duplicate parameter name")
	ErrModelFrozen         = errors.New("model already built")
	ErrSlotOutOfRange      = errors.New("observable slot out of range")
	ErrUnknownModel        = errors.New("unknown model")
	ErrUnknownObservable   = errors.New("unknown observable")
	ErrInvalidDistribution = errors.New("invalid distribution")
	ErrDuplicateName       = errors.New("name already registered")
)

// MissingDistributionError names the first parameter still lacking a
// distribution when a model is built.
type MissingDistributionError struct {
	Model     string
	Parameter string
}

func (e *MissingDistributionError) Error() string {
	return fmt.Sprintf("model %s: no distribution for parameter %q", e.Model, e.Parameter)
}

func (e *MissingDistributionError) Unwrap() error { return ErrMissingDistribution }

// IncompatibleObservableError reports a model that lacks the capability an
// observable requires.
type IncompatibleObservableError struct {
	Model      string
	Observable string
}

func (e *IncompatibleObservableError) Error() string {
	return fmt.Sprintf("model %s cannot compute observable %s", e.Model, e.Observable)
}

func (e *IncompatibleObservableError) Unwrap() error { return ErrIncompatibleObservable }
