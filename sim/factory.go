package sim

import (
	"fmt"
)

// ModelFactory assembles one Node. Distributions and submodels are supplied
// while building; Build validates and freezes the model. After a successful
// Build the factory rejects further changes and returns the same Node.
type ModelFactory struct {
	name     string
	model    Model
	params   *ParameterSpace
	children []*Node
	strict   bool
	built    *Node
}

// NewModelFactory wraps a freshly constructed model. With strict set,
// SetDistribution rejects names the model does not declare; otherwise they
// are reported as unused and ignored.
func NewModelFactory(name string, m Model, strict bool) (*ModelFactory, error) {
	if m == nil {
		return nil, fmt.Errorf("model %q: %w", name, ErrUnknownModel)
	}
	ps, err := NewParameterSpace(m.Parameters())
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	return &ModelFactory{name: name, model: m, params: ps, strict: strict}, nil
}

// Name returns the model name.
func (f *ModelFactory) Name() string { return f.name }

// Parameters returns the model's own parameter names, lower-cased.
func (f *ModelFactory) Parameters() []string { return f.params.Names() }

// Missing returns the parameters still lacking a distribution.
func (f *ModelFactory) Missing() []string { return f.params.Missing() }

// SetDistribution assigns a distribution to a named parameter, matching the
// name case-insensitively. A later call for the same name replaces the
// earlier one. It reports whether the distribution was used.
func (f *ModelFactory) SetDistribution(name string, d RandomDistribution) (bool, error) {
	if f.built != nil {
		return false, ErrModelFrozen
	}
	if d == nil {
		return false, fmt.Errorf("parameter %q: nil distribution: %w", name, ErrInvalidDistribution)
	}
	if f.params.Set(name, d) {
		return true, nil
	}
	if f.strict {
		return false, fmt.Errorf("model %s has no parameter %q: %w", f.name, name, ErrUnknownParameter)
	}
	return false, nil
}

// AddSubmodel appends a built submodel to a composite.
func (f *ModelFactory) AddSubmodel(sub *Node) error {
	if f.built != nil {
		return ErrModelFrozen
	}
	cm, ok := f.model.(CompositeModel)
	if !ok {
		return fmt.Errorf("model %s: %w", f.name, ErrNotComposite)
	}
	if sub == nil {
		return fmt.Errorf("model %s: nil submodel: %w", f.name, ErrIncompatibleSubmodel)
	}
	if sub.Kind() != cm.SubmodelKind() {
		return fmt.Errorf("model %s accepts %s submodels, %s is %s: %w",
			f.name, cm.SubmodelKind(), sub.Name(), sub.Kind(), ErrIncompatibleSubmodel)
	}
	f.children = append(f.children, sub)
	return nil
}

// Build validates the model and returns the frozen Node. On error the
// factory stays open so the caller may fix the problem and retry.
func (f *ModelFactory) Build() (*Node, error) {
	if f.built != nil {
		return f.built, nil
	}
	if missing := f.params.Missing(); len(missing) > 0 {
		return nil, &MissingDistributionError{Model: f.name, Parameter: missing[0]}
	}
	cm, composite := f.model.(CompositeModel)
	if composite && len(f.children) == 0 {
		return nil, fmt.Errorf("model %s: %w", f.name, ErrNoSubmodels)
	}

	own := f.params.Len()
	size := own
	spans := make([]Span, len(f.children))
	for i, c := range f.children {
		spans[i] = Span{Offset: size, Len: c.NumParameters()}
		size += c.NumParameters()
	}
	children := append([]*Node(nil), f.children...)
	if composite {
		cm.compositeBase().attach(own, children, spans)
	}

	f.built = &Node{
		name:     f.name,
		model:    f.model,
		kind:     kindOf(f.model),
		params:   f.params.clone(),
		children: children,
		spans:    spans,
		size:     size,
	}
	return f.built, nil
}
