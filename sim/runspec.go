package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/molstat/molstat/sim/histogram"
)

// RunSpec describes one simulation run independent of its input format.
type RunSpec struct {
	Model       *ModelSpec       `yaml:"model"`
	Observables []ObservableSpec `yaml:"observables"`
	Trials      int              `yaml:"trials"`
	Output      string           `yaml:"output"`
}

// ModelSpec declares a model, its parameter distributions and, for
// composites, its submodels.
type ModelSpec struct {
	Type          string          `yaml:"type"`
	Distributions []ParameterSpec `yaml:"distributions"`
	Submodels     []ModelSpec     `yaml:"submodels"`
	Line          int             `yaml:"-"`
}

// ParameterSpec assigns a distribution to one named parameter.
type ParameterSpec struct {
	Name     string `yaml:"name"`
	DistSpec `yaml:",inline"`
	Line     int `yaml:"-"`
}

// DefaultBins is the bin style used when an observable names none.
const DefaultBins = "100 linear"

// ObservableSpec binds an observable to a slot with a bin style written as
// "<nbins> <style> [base]".
type ObservableSpec struct {
	Slot int    `yaml:"slot"`
	Name string `yaml:"name"`
	Bins string `yaml:"bins"`
	Line int    `yaml:"-"`
}

// Diagnostic is a non-fatal configuration problem. Line is zero when the
// input format has no line numbers.
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return d.Message
}

// Validate checks the fields that do not need the catalog.
func (s *RunSpec) Validate() error {
	if s.Model == nil {
		return errors.New("no model specified")
	}
	if s.Trials < 0 {
		return fmt.Errorf("trials must be non-negative, got %d", s.Trials)
	}
	return s.Model.validate()
}

func (m *ModelSpec) validate() error {
	if m.Type == "" {
		return errors.New("model type is required")
	}
	for _, ps := range m.Distributions {
		if ps.Name == "" {
			return fmt.Errorf("model %s: distribution without a parameter name", m.Type)
		}
	}
	for i := range m.Submodels {
		if err := m.Submodels[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

// Assembly is a ready-to-run simulator with one bin style per slot.
type Assembly struct {
	Simulator *Simulator
	Styles    []histogram.BinStyle
}

// Assemble builds the model tree and binds observables by slot; the last
// valid entry for a slot wins. Malformed or incompatible entries are dropped
// and reported as diagnostics; an error is returned only when nothing
// runnable remains.
func Assemble(spec *RunSpec, cat *Catalog) (*Assembly, []Diagnostic, error) {
	var diags []Diagnostic
	if spec.Model == nil {
		return nil, nil, errors.New("no model specified")
	}
	root, err := buildModel(spec.Model, cat, &diags)
	if err != nil {
		return nil, diags, fmt.Errorf("line %d: %w", spec.Model.Line, err)
	}
	s, err := NewSimulator(root)
	if err != nil {
		return nil, diags, err
	}

	var obsDiags []Diagnostic
	bySlot := make(map[int]resolvedObservable)
	for _, ob := range spec.Observables {
		obs, err := cat.Observable(ob.Name)
		if err != nil {
			obsDiags = append(obsDiags, Diagnostic{ob.Line, err.Error()})
			continue
		}
		bins := ob.Bins
		if bins == "" {
			bins = DefaultBins
		}
		style, err := histogram.ParseBinStyle(bins)
		if err != nil {
			obsDiags = append(obsDiags, Diagnostic{ob.Line, err.Error()})
			continue
		}
		bySlot[ob.Slot] = resolvedObservable{ObservableSpec: ob, obs: obs, style: style}
	}

	// Slots bind in ascending order whatever order the input lists them in;
	// a slot that cannot be bound leaves a gap that later slots report.
	slots := make([]int, 0, len(bySlot))
	for k := range bySlot {
		slots = append(slots, k)
	}
	sort.Ints(slots)
	var styles []histogram.BinStyle
	for _, k := range slots {
		r := bySlot[k]
		if err := s.SetObservable(k, r.obs); err != nil {
			obsDiags = append(obsDiags, Diagnostic{r.Line, err.Error()})
			continue
		}
		styles = append(styles, r.style)
	}
	sort.SliceStable(obsDiags, func(i, j int) bool { return obsDiags[i].Line < obsDiags[j].Line })
	diags = append(diags, obsDiags...)

	if s.NumObservables() == 0 {
		return nil, diags, ErrNoObservables
	}
	return &Assembly{Simulator: s, Styles: styles}, diags, nil
}

type resolvedObservable struct {
	ObservableSpec
	obs   *Observable
	style histogram.BinStyle
}

func buildModel(ms *ModelSpec, cat *Catalog, diags *[]Diagnostic) (*Node, error) {
	f, err := cat.NewFactory(ms.Type, false)
	if err != nil {
		return nil, err
	}
	for _, ps := range ms.Distributions {
		d, err := NewDistribution(ps.DistSpec)
		if err != nil {
			*diags = append(*diags, Diagnostic{ps.Line, err.Error()})
			continue
		}
		used, err := f.SetDistribution(ps.Name, d)
		if err != nil {
			*diags = append(*diags, Diagnostic{ps.Line, err.Error()})
			continue
		}
		if !used {
			*diags = append(*diags, Diagnostic{ps.Line,
				fmt.Sprintf("parameter %q is not used by model %s", ps.Name, f.Name())})
		}
	}
	for i := range ms.Submodels {
		sub := &ms.Submodels[i]
		node, err := buildModel(sub, cat, diags)
		if err != nil {
			*diags = append(*diags, Diagnostic{sub.Line, err.Error()})
			continue
		}
		if err := f.AddSubmodel(node); err != nil {
			*diags = append(*diags, Diagnostic{sub.Line, err.Error()})
		}
	}
	return f.Build()
}
