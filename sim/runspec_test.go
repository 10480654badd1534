package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molstat/molstat/sim/histogram"
)

func TestCatalog_Lookup(t *testing.T) {
	c := newTestCatalog(t)

	f, err := c.NewFactory("testmodel", true)
	require.NoError(t, err)
	assert.Equal(t, "TestModel", f.Name())

	_, err = c.NewFactory("nope", true)
	assert.ErrorIs(t, err, ErrUnknownModel)

	obs, err := c.Observable("OBS2")
	require.NoError(t, err)
	assert.Same(t, testObs2, obs)
	_, err = c.Observable("obs9")
	assert.ErrorIs(t, err, ErrUnknownObservable)

	assert.ErrorIs(t, c.RegisterModel("testMODEL", func() Model { return testModel{} }), ErrDuplicateName)
	assert.ErrorIs(t, c.RegisterObservable(testObs1), ErrDuplicateName)
	assert.Equal(t, []string{"TestComposite", "TestModel", "TestPart"}, c.Models())
	assert.Equal(t, []string{"Failing", "Obs1", "Obs2", "Obs3"}, c.Observables())
}

func TestCatalog_FactoriesAreIndependent(t *testing.T) {
	// BDD: each factory gets a fresh composite instance
	c := newTestCatalog(t)
	f1, err := c.NewFactory("TestComposite", true)
	require.NoError(t, err)
	f2, err := c.NewFactory("TestComposite", true)
	require.NoError(t, err)
	assert.NotSame(t, f1.model, f2.model)
}

func TestAssemble_DiagnosticsAreNotFatal(t *testing.T) {
	spec := &RunSpec{
		Model: &ModelSpec{
			Type: "TestComposite",
			Line: 1,
			Distributions: []ParameterSpec{
				{Name: "s", DistSpec: DistSpec{Type: "constant", Args: []float64{2}}, Line: 2},
				{Name: "bogus", DistSpec: DistSpec{Type: "constant", Args: []float64{1}}, Line: 3},
				{Name: "s", DistSpec: DistSpec{Type: "normal", Args: []float64{0, -1}}, Line: 4},
			},
			Submodels: []ModelSpec{
				{Type: "TestPart", Line: 5, Distributions: []ParameterSpec{
					{Name: "c", DistSpec: DistSpec{Type: "constant", Args: []float64{3}}, Line: 6},
				}},
				{Type: "TestPart", Line: 8}, // missing c: dropped
				{Type: "TestModel", Line: 10, Distributions: []ParameterSpec{
					{Name: "a", DistSpec: DistSpec{Type: "constant", Args: []float64{1}}},
					{Name: "b", DistSpec: DistSpec{Type: "constant", Args: []float64{1}}},
				}}, // wrong kind: dropped
				{Type: "Unknown", Line: 12},
			},
		},
		Observables: []ObservableSpec{
			{Slot: 0, Name: "Obs1", Bins: "10 linear", Line: 14},
			{Slot: 1, Name: "Obs3", Bins: "10 linear", Line: 15},
			{Slot: 1, Name: "Obs9", Bins: "10 linear", Line: 16},
			{Slot: 1, Name: "Obs1", Bins: "10 cubic", Line: 17},
			{Slot: 5, Name: "Obs1", Bins: "10 linear", Line: 18},
		},
	}

	a, diags, err := Assemble(spec, newTestCatalog(t))
	require.NoError(t, err)
	assert.Equal(t, 1, a.Simulator.NumObservables())
	require.Len(t, a.Styles, 1)
	assert.Equal(t, histogram.Linear{NBins: 10}, a.Styles[0])
	assert.Len(t, a.Simulator.Model().Submodels(), 1)

	var lines []int
	for _, d := range diags {
		lines = append(lines, d.Line)
	}
	assert.Equal(t, []int{3, 4, 8, 10, 12, 15, 16, 17, 18}, lines)
}

func TestAssemble_BindsBySlot(t *testing.T) {
	model := &ModelSpec{Type: "TestModel", Distributions: []ParameterSpec{
		{Name: "a", DistSpec: DistSpec{Type: "constant", Args: []float64{1}}},
		{Name: "b", DistSpec: DistSpec{Type: "constant", Args: []float64{2}}},
	}}
	tests := []struct {
		name      string
		obs       []ObservableSpec
		want      []*Observable
		wantBins  []int
		diagLines []int
	}{
		{
			name: "y before x",
			obs: []ObservableSpec{
				{Slot: 1, Name: "Obs2", Bins: "20 linear", Line: 1},
				{Slot: 0, Name: "Obs1", Bins: "10 linear", Line: 2},
			},
			want:     []*Observable{testObs1, testObs2},
			wantBins: []int{10, 20},
		},
		{
			name: "later entry replaces earlier",
			obs: []ObservableSpec{
				{Slot: 0, Name: "Obs1", Bins: "10 linear", Line: 1},
				{Slot: 0, Name: "Obs2", Bins: "30 linear", Line: 2},
			},
			want:     []*Observable{testObs2},
			wantBins: []int{30},
		},
		{
			name: "gap is reported",
			obs: []ObservableSpec{
				{Slot: 2, Name: "Obs2", Bins: "20 linear", Line: 1},
				{Slot: 0, Name: "Obs1", Bins: "10 linear", Line: 2},
			},
			want:      []*Observable{testObs1},
			wantBins:  []int{10},
			diagLines: []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, diags, err := Assemble(&RunSpec{Model: model, Observables: tt.obs}, newTestCatalog(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Simulator.Observables())
			var bins []int
			for _, s := range a.Styles {
				bins = append(bins, s.Bins())
			}
			assert.Equal(t, tt.wantBins, bins)
			var lines []int
			for _, d := range diags {
				lines = append(lines, d.Line)
			}
			assert.Equal(t, tt.diagLines, lines)
		})
	}
}

func TestAssemble_Fatal(t *testing.T) {
	c := newTestCatalog(t)

	_, _, err := Assemble(&RunSpec{}, c)
	assert.Error(t, err)

	_, _, err = Assemble(&RunSpec{Model: &ModelSpec{Type: "TestModel"}}, c)
	assert.ErrorIs(t, err, ErrMissingDistribution)

	part := &RunSpec{Model: &ModelSpec{Type: "TestPart", Distributions: []ParameterSpec{
		{Name: "c", DistSpec: DistSpec{Type: "constant", Args: []float64{1}}},
	}}}
	_, _, err = Assemble(part, c)
	assert.ErrorIs(t, err, ErrFullModelRequired)

	noObs := &RunSpec{Model: &ModelSpec{Type: "TestModel", Distributions: []ParameterSpec{
		{Name: "a", DistSpec: DistSpec{Type: "constant", Args: []float64{1}}},
		{Name: "b", DistSpec: DistSpec{Type: "constant", Args: []float64{1}}},
	}}}
	_, _, err = Assemble(noObs, c)
	assert.ErrorIs(t, err, ErrNoObservables)
}

// === Runner ===

func newUniformSimulator(t *testing.T) *Simulator {
	t.Helper()
	n := buildNode(t, "TestModel", testModel{}, map[string]RandomDistribution{
		"a": UniformDistribution{Lower: 0, Upper: 1},
		"b": ConstantDistribution{Value: 2},
	})
	s, err := NewSimulator(n)
	require.NoError(t, err)
	require.NoError(t, s.SetObservable(0, testObs1))
	require.NoError(t, s.SetObservable(1, testObs2))
	return s
}

func TestRunner_Deterministic(t *testing.T) {
	s := newUniformSimulator(t)
	for _, workers := range []int{1, 4} {
		r := Runner{Trials: 1000, Workers: workers, Key: NewSimulationKey(3)}
		a, err := r.Run(context.Background(), s)
		require.NoError(t, err)
		b, err := r.Run(context.Background(), s)
		require.NoError(t, err)

		assert.Equal(t, 1000, a.Histogram.Len())
		colA, err := a.Histogram.Column(0)
		require.NoError(t, err)
		colB, err := b.Histogram.Column(0)
		require.NoError(t, err)
		assert.Equal(t, colA, colB, "workers=%d", workers)
	}
}

func TestRunner_SingleWorkerUsesMasterSeed(t *testing.T) {
	s := newUniformSimulator(t)
	res, err := Runner{Trials: 5, Workers: 1, Key: NewSimulationKey(8)}.Run(context.Background(), s)
	require.NoError(t, err)

	rng := NewPartitionedRNG(NewSimulationKey(8)).ForSubsystem(SubsystemTrials)
	col, err := res.Histogram.Column(0)
	require.NoError(t, err)
	for i := range col {
		out, err := s.Simulate(rng)
		require.NoError(t, err)
		assert.Equal(t, out[0], col[i])
	}
}

func TestRunner_PropagatesObservableError(t *testing.T) {
	n := buildNode(t, "TestModel", testModel{}, map[string]RandomDistribution{"a": constant(1), "b": constant(1)})
	s, err := NewSimulator(n)
	require.NoError(t, err)
	require.NoError(t, s.SetObservable(0, testFailing))

	_, err = Runner{Trials: 10, Workers: 2}.Run(context.Background(), s)
	assert.ErrorIs(t, err, errTestFailure)

	_, err = Runner{Trials: 0}.Run(context.Background(), s)
	assert.Error(t, err)
}

type sometimesModel struct{}

type sometimesCapable interface {
	Sometimes(params []float64) (float64, error)
}

var testSometimes = NewObservable("Sometimes", sometimesCapable.Sometimes)

func (sometimesModel) Parameters() []string { return []string{"x"} }

func (sometimesModel) Sometimes(p []float64) (float64, error) {
	if p[0] < 0.5 {
		return 0, ErrNoObservableProduced
	}
	return p[0], nil
}

func TestRunner_SkipsTrialsWithoutObservable(t *testing.T) {
	n := buildNode(t, "Sometimes", sometimesModel{}, map[string]RandomDistribution{
		"x": UniformDistribution{Lower: 0, Upper: 1},
	})
	s, err := NewSimulator(n)
	require.NoError(t, err)
	require.NoError(t, s.SetObservable(0, testSometimes))

	res, err := Runner{Trials: 2000, Workers: 3, Key: 1}.Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 2000, res.Histogram.Len()+res.Skipped)
	assert.InDelta(t, 1000, res.Skipped, 150)
}

func TestSummarize(t *testing.T) {
	h, err := histogram.New(1)
	require.NoError(t, err)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		require.NoError(t, h.AddData([]float64{v}))
	}
	sum, err := Summarize(h, []*Observable{testObs1})
	require.NoError(t, err)
	require.Len(t, sum, 1)
	assert.Equal(t, "Obs1", sum[0].Observable)
	assert.Equal(t, 5, sum[0].Count)
	assert.Equal(t, 3.0, sum[0].Mean)
	assert.Equal(t, 3.0, sum[0].Median)
	assert.Equal(t, 1.0, sum[0].Min)
	assert.Equal(t, 5.0, sum[0].Max)
	assert.Contains(t, sum[0].String(), "Obs1")

	_, err = Summarize(h, nil)
	assert.ErrorIs(t, err, histogram.ErrDimensionMismatch)
}

func TestIdentityModel_ReproducesDistribution(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, RegisterIdentity(c))
	assert.Error(t, RegisterIdentity(c))

	spec := &RunSpec{
		Model: &ModelSpec{Type: "identitymodel", Distributions: []ParameterSpec{
			{Name: "parameter", DistSpec: DistSpec{Type: "constant", Args: []float64{5}}},
		}},
		Observables: []ObservableSpec{{Slot: 0, Name: "identity"}},
	}
	a, diags, err := Assemble(spec, c)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, histogram.Linear{NBins: 100}, a.Styles[0], "default bins")

	res, err := Runner{Trials: 50, Workers: 2, Key: 4}.Run(context.Background(), a.Simulator)
	require.NoError(t, err)
	col, err := res.Histogram.Column(0)
	require.NoError(t, err)
	for _, v := range col {
		assert.Equal(t, 5.0, v)
	}
}

func TestRunSpec_Validate(t *testing.T) {
	assert.Error(t, (&RunSpec{}).Validate())
	assert.Error(t, (&RunSpec{Model: &ModelSpec{Type: "x"}, Trials: -1}).Validate())
	assert.Error(t, (&RunSpec{Model: &ModelSpec{Type: "x", Submodels: []ModelSpec{{}}}}).Validate())
	assert.Error(t, (&RunSpec{Model: &ModelSpec{Type: "x", Distributions: []ParameterSpec{{}}}}).Validate())
	assert.NoError(t, (&RunSpec{Model: &ModelSpec{Type: "x"}, Trials: 10}).Validate())
}
