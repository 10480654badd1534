package sim

import (
	"fmt"
	"sort"
	"strings"
)

// ModelConstructor returns a fresh, unconfigured model.
type ModelConstructor func() Model

// Catalog maps names to model constructors and observables. Lookups are
// case-insensitive. A Catalog is built explicitly by the caller; model
// packages expose Register functions that populate one.
type Catalog struct {
	models      map[string]ModelConstructor
	modelNames  map[string]string
	observables map[string]*Observable
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		models:      make(map[string]ModelConstructor),
		modelNames:  make(map[string]string),
		observables: make(map[string]*Observable),
	}
}

// RegisterModel adds a model constructor under name.
func (c *Catalog) RegisterModel(name string, ctor ModelConstructor) error {
	key := strings.ToLower(name)
	if _, dup := c.models[key]; dup {
		return fmt.Errorf("model %q: %w", name, ErrDuplicateName)
	}
	c.models[key] = ctor
	c.modelNames[key] = name
	return nil
}

// RegisterObservable adds obs under its name.
func (c *Catalog) RegisterObservable(obs *Observable) error {
	key := strings.ToLower(obs.Name())
	if _, dup := c.observables[key]; dup {
		return fmt.Errorf("observable %q: %w", obs.Name(), ErrDuplicateName)
	}
	c.observables[key] = obs
	return nil
}

// NewFactory constructs a fresh model by name and wraps it in a factory.
func (c *Catalog) NewFactory(name string, strict bool) (*ModelFactory, error) {
	key := strings.ToLower(name)
	ctor, ok := c.models[key]
	if !ok {
		return nil, fmt.Errorf("model %q: %w", name, ErrUnknownModel)
	}
	return NewModelFactory(c.modelNames[key], ctor(), strict)
}

// Observable looks up an observable by name.
func (c *Catalog) Observable(name string) (*Observable, error) {
	obs, ok := c.observables[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("observable %q: %w", name, ErrUnknownObservable)
	}
	return obs, nil
}

// Models returns the registered model names, sorted.
func (c *Catalog) Models() []string {
	out := make([]string, 0, len(c.modelNames))
	for _, n := range c.modelNames {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Observables returns the registered observable names, sorted.
func (c *Catalog) Observables() []string {
	out := make([]string, 0, len(c.observables))
	for _, o := range c.observables {
		out = append(out, o.Name())
	}
	sort.Strings(out)
	return out
}
