package sim

import (
	"fmt"
	"math/rand"
	"strings"
)

// ParameterSpace is an ordered mapping from parameter name to distribution.
// Names are matched case-insensitively and stored lower-cased; the order of
// declaration is the order of the sampled vector.
type ParameterSpace struct {
	names []string
	dists []RandomDistribution
	index map[string]int
}

// NewParameterSpace declares the parameters of one model.
func NewParameterSpace(names []string) (*ParameterSpace, error) {
	ps := &ParameterSpace{
		names: make([]string, len(names)),
		dists: make([]RandomDistribution, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		key := strings.ToLower(n)
		if _, dup := ps.index[key]; dup {
			return nil, fmt.Errorf("parameter %q: %w", n, ErrDuplicateParameter)
		}
		ps.names[i] = key
		ps.index[key] = i
	}
	return ps, nil
}

// Len returns the number of declared parameters.
func (ps *ParameterSpace) Len() int { return len(ps.names) }

// Names returns the declared names in vector order.
func (ps *ParameterSpace) Names() []string {
	return append([]string(nil), ps.names...)
}

// Has reports whether name is declared.
func (ps *ParameterSpace) Has(name string) bool {
	_, ok := ps.index[strings.ToLower(name)]
	return ok
}

// Set assigns a distribution. It reports false when name is not declared.
func (ps *ParameterSpace) Set(name string, d RandomDistribution) bool {
	i, ok := ps.index[strings.ToLower(name)]
	if !ok {
		return false
	}
	ps.dists[i] = d
	return true
}

// Distribution returns the distribution assigned to name, or nil.
func (ps *ParameterSpace) Distribution(name string) RandomDistribution {
	if i, ok := ps.index[strings.ToLower(name)]; ok {
		return ps.dists[i]
	}
	return nil
}

// Missing returns, in declaration order, the names without a distribution.
func (ps *ParameterSpace) Missing() []string {
	var out []string
	for i, d := range ps.dists {
		if d == nil {
			out = append(out, ps.names[i])
		}
	}
	return out
}

// Sample draws every parameter in order into dst, which must have Len
// elements.
func (ps *ParameterSpace) Sample(rng *rand.Rand, dst []float64) {
	for i, d := range ps.dists {
		dst[i] = d.Sample(rng)
	}
}

func (ps *ParameterSpace) clone() *ParameterSpace {
	out := &ParameterSpace{
		names: append([]string(nil), ps.names...),
		dists: append([]RandomDistribution(nil), ps.dists...),
		index: make(map[string]int, len(ps.index)),
	}
	for k, v := range ps.index {
		out.index[k] = v
	}
	return out
}
