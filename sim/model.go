package sim

import (
	"fmt"
	"math/rand"
)

// Model is a physics model. It declares the names of its own parameters in
// the order they appear in its parameter vector; its capabilities are the
// observable interfaces it implements.
type Model interface {
	Parameters() []string
}

// ModelKind classifies models. Only FullModel nodes can drive a Simulator;
// composites accept submodels of one other kind.
type ModelKind string

// FullModel is the kind of any model that does not declare one.
const FullModel ModelKind = "full"

// KindedModel is implemented by models whose kind is not FullModel.
type KindedModel interface {
	Kind() ModelKind
}

func kindOf(m Model) ModelKind {
	if k, ok := m.(KindedModel); ok {
		return k.Kind()
	}
	return FullModel
}

// Span is a contiguous block of a flat parameter vector.
type Span struct {
	Offset, Len int
}

// Node is a built, immutable model: its own parameter distributions followed
// by the blocks of its submodels, in the order they were added. A Node may
// be shared by any number of simulators and goroutines.
type Node struct {
	name     string
	model    Model
	kind     ModelKind
	params   *ParameterSpace
	children []*Node
	spans    []Span
	size     int
}

// Name returns the catalog name the node was built from.
func (n *Node) Name() string { return n.name }

// Model returns the underlying physics model.
func (n *Node) Model() Model { return n.model }

// Kind returns the model kind.
func (n *Node) Kind() ModelKind { return n.kind }

// NumParameters returns the length of the full parameter vector, own
// parameters and every submodel block included.
func (n *Node) NumParameters() int { return n.size }

// Submodels returns the direct submodels in addition order.
func (n *Node) Submodels() []*Node {
	return append([]*Node(nil), n.children...)
}

// ParameterNames labels every entry of the full parameter vector. Submodel
// parameters are prefixed with their position, e.g. "1.epsilon".
func (n *Node) ParameterNames() []string {
	out := n.params.Names()
	for i, c := range n.children {
		for _, name := range c.ParameterNames() {
			out = append(out, fmt.Sprintf("%d.%s", i, name))
		}
	}
	return out
}

// GenerateParameters draws one full parameter vector.
func (n *Node) GenerateParameters(rng *rand.Rand) []float64 {
	buf := make([]float64, n.size)
	n.fill(rng, buf)
	return buf
}

// fill samples into buf, which has exactly n.size elements.
func (n *Node) fill(rng *rand.Rand, buf []float64) {
	n.params.Sample(rng, buf[:n.params.Len()])
	for i, c := range n.children {
		sp := n.spans[i]
		c.fill(rng, buf[sp.Offset:sp.Offset+sp.Len])
	}
}

// ObservableFunc binds obs to this node. It fails with an
// IncompatibleObservableError when the model lacks the capability.
func (n *Node) ObservableFunc(obs *Observable) (ObservableFunc, error) {
	if obs == nil {
		return nil, fmt.Errorf("nil observable: %w", ErrUnknownObservable)
	}
	fn, ok := obs.bind(n.model)
	if !ok {
		return nil, &IncompatibleObservableError{Model: n.name, Observable: obs.Name()}
	}
	if c, ok := n.model.(observableChecker); ok {
		if err := c.checkObservable(obs); err != nil {
			return nil, err
		}
	}
	return fn, nil
}

// Supports reports whether obs can be bound to this node.
func (n *Node) Supports(obs *Observable) bool {
	_, err := n.ObservableFunc(obs)
	return err == nil
}
