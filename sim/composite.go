package sim

import "fmt"

// CompositeModel is a model assembled from submodels of one kind. Concrete
// composites embed Composite, which the factory fills in when the model is
// built.
type CompositeModel interface {
	Model
	SubmodelKind() ModelKind
	compositeBase() *Composite
}

// CombineFunc folds the per-submodel values of one observable.
type CombineFunc func(values []float64) float64

// Sum adds the values.
func Sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}

// Composite holds the submodels of a composite model and routes parameter
// vectors to them. Each submodel sees the composite's own parameters followed
// by its own block.
type Composite struct {
	own      int
	children []*Node
	spans    []Span

	combine  map[*Observable]CombineFunc
	requires map[*Observable][]*Observable
}

func (c *Composite) compositeBase() *Composite { return c }

// Combine declares obs as the fold of the same observable over every
// submodel.
func (c *Composite) Combine(obs *Observable, fn CombineFunc) {
	if c.combine == nil {
		c.combine = make(map[*Observable]CombineFunc)
	}
	c.combine[obs] = fn
	c.Require(obs, obs)
}

// Require declares that binding obs on the composite needs every submodel to
// support each of deps.
func (c *Composite) Require(obs *Observable, deps ...*Observable) {
	if c.requires == nil {
		c.requires = make(map[*Observable][]*Observable)
	}
	c.requires[obs] = append(c.requires[obs], deps...)
}

func (c *Composite) checkObservable(obs *Observable) error {
	for _, dep := range c.requires[obs] {
		for _, child := range c.children {
			if _, err := child.ObservableFunc(dep); err != nil {
				return fmt.Errorf("submodel of composite: %w", err)
			}
		}
	}
	return nil
}

func (c *Composite) attach(own int, children []*Node, spans []Span) {
	c.own = own
	c.children = children
	c.spans = spans
}

// NumSubmodels returns the number of submodels.
func (c *Composite) NumSubmodels() int { return len(c.children) }

// Route returns the vector seen by submodel i: the composite's own
// parameters followed by the submodel's block.
func (c *Composite) Route(params []float64, i int) []float64 {
	sp := c.spans[i]
	out := make([]float64, 0, c.own+sp.Len)
	out = append(out, params[:c.own]...)
	return append(out, params[sp.Offset:sp.Offset+sp.Len]...)
}

// Evaluate computes obs on submodel i with routed parameters.
func (c *Composite) Evaluate(obs *Observable, params []float64, i int) (float64, error) {
	fn, err := c.children[i].ObservableFunc(obs)
	if err != nil {
		return 0, err
	}
	return fn(c.Route(params, i))
}

// Reduce evaluates obs on every submodel and folds the results with the
// function registered by Combine.
func (c *Composite) Reduce(obs *Observable, params []float64) (float64, error) {
	fn, ok := c.combine[obs]
	if !ok {
		return 0, fmt.Errorf("composite does not combine %s: %w", obs.Name(), ErrIncompatibleObservable)
	}
	values := make([]float64, len(c.children))
	for i := range c.children {
		v, err := c.Evaluate(obs, params, i)
		if err != nil {
			return 0, err
		}
		values[i] = v
	}
	return fn(values), nil
}
