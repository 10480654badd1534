package sim

// ObservableFunc evaluates an observable on a model's flat parameter vector.
type ObservableFunc func(params []float64) (float64, error)

// Observable identifies a measurable quantity together with the model
// capability needed to compute it. Observables are compared by identity, so
// each one is declared once, typically as a package-level variable.
type Observable struct {
	name string
	bind func(m Model) (ObservableFunc, bool)
}

// NewObservable declares an observable computed by models implementing the
// capability interface C:
//
//	type ZeroBiasConductanceModel interface {
//		ZeroBiasG(params []float64) (float64, error)
//	}
//	var ZeroBiasConductance = sim.NewObservable("ZeroBiasConductance",
//		ZeroBiasConductanceModel.ZeroBiasG)
func NewObservable[C any](name string, eval func(C, []float64) (float64, error)) *Observable {
	return &Observable{
		name: name,
		bind: func(m Model) (ObservableFunc, bool) {
			c, ok := m.(C)
			if !ok {
				return nil, false
			}
			return func(params []float64) (float64, error) {
				return eval(c, params)
			}, true
		},
	}
}

// Name returns the display name.
func (o *Observable) Name() string { return o.name }

func (o *Observable) String() string { return o.name }

// observableChecker is implemented by models that need to veto a capability
// they implement structurally, e.g. a composite whose submodels lack it.
type observableChecker interface {
	checkObservable(obs *Observable) error
}
