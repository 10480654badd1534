package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// === Test models ===
//
// testModel has parameters a and b and computes Obs1 = a, Obs2 = a*b.
// Obs3 is declared but unimplemented; Failing always errors.

type obs1Model interface {
	Obs1(params []float64) (float64, error)
}

type obs2Model interface {
	Obs2(params []float64) (float64, error)
}

type obs3Model interface {
	Obs3(params []float64) (float64, error)
}

type failingModel interface {
	Failing(params []float64) (float64, error)
}

var (
	testObs1    = NewObservable("Obs1", obs1Model.Obs1)
	testObs2    = NewObservable("Obs2", obs2Model.Obs2)
	testObs3    = NewObservable("Obs3", obs3Model.Obs3)
	testFailing = NewObservable("Failing", failingModel.Failing)

	errTestFailure = errors.New("observable failed to converge")
)

type testModel struct{}

func (testModel) Parameters() []string { return []string{"a", "B"} }

func (testModel) Obs1(p []float64) (float64, error) { return p[0], nil }

func (testModel) Obs2(p []float64) (float64, error) { return p[0] * p[1], nil }

func (testModel) Failing([]float64) (float64, error) { return 0, errTestFailure }

// testPart is a submodel with a single parameter c.
type testPart struct{}

const testPartKind ModelKind = "test.part"

func (testPart) Parameters() []string { return []string{"c"} }
func (testPart) Kind() ModelKind      { return testPartKind }

// Obs1 on a part sees the routed vector: composite's own params then c.
func (testPart) Obs1(p []float64) (float64, error) { return p[0] * p[1], nil }

// otherPart is a submodel of a kind testComposite does not accept.
type otherPart struct{}

func (otherPart) Parameters() []string { return nil }
func (otherPart) Kind() ModelKind      { return "test.other" }

// testComposite has one own parameter s and sums Obs1 over its parts.
type testComposite struct {
	Composite
}

func newTestComposite() *testComposite {
	c := &testComposite{}
	c.Combine(testObs1, Sum)
	c.Combine(testObs3, Sum)
	return c
}

func (*testComposite) Parameters() []string    { return []string{"s"} }
func (*testComposite) SubmodelKind() ModelKind { return testPartKind }

func (c *testComposite) Obs1(p []float64) (float64, error) { return c.Reduce(testObs1, p) }

// Obs3 is implemented on the composite but no part supports it.
func (c *testComposite) Obs3(p []float64) (float64, error) { return c.Reduce(testObs3, p) }

// === Builders ===

func buildNode(t *testing.T, name string, m Model, dists map[string]RandomDistribution) *Node {
	t.Helper()
	f, err := NewModelFactory(name, m, true)
	require.NoError(t, err)
	for k, d := range dists {
		used, err := f.SetDistribution(k, d)
		require.NoError(t, err)
		require.True(t, used)
	}
	n, err := f.Build()
	require.NoError(t, err)
	return n
}

func constant(v float64) RandomDistribution { return ConstantDistribution{Value: v} }

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	require.NoError(t, c.RegisterModel("TestModel", func() Model { return testModel{} }))
	require.NoError(t, c.RegisterModel("TestComposite", func() Model { return newTestComposite() }))
	require.NoError(t, c.RegisterModel("TestPart", func() Model { return testPart{} }))
	for _, o := range []*Observable{testObs1, testObs2, testObs3, testFailing} {
		require.NoError(t, c.RegisterObservable(o))
	}
	return c
}
