package deck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molstat/molstat/sim"
	"github.com/molstat/molstat/sim/histogram"
	"github.com/molstat/molstat/sim/transport"
)

const junctionDeck = `# two observables, one channel
observable_x StaticConductance 100 log
Observable_Y AppliedBias 50 linear

model TransportJunction
	distribution ef constant 0
	distribution v uniform 0 1   # bias window
	MODEL SymmetricOneSiteChannel
		distribution epsilon normal -3 0.5
		distribution gamma lognormal -3 0.2
		distribution a constant 0
	endmodel
endmodel

trials 1000
output hist.dat
`

func TestParse_Junction(t *testing.T) {
	spec, diags, err := Parse(strings.NewReader(junctionDeck))
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, 1000, spec.Trials)
	assert.Equal(t, "hist.dat", spec.Output)
	assert.Equal(t, []sim.ObservableSpec{
		{Slot: 0, Name: "StaticConductance", Bins: "100 log", Line: 2},
		{Slot: 1, Name: "AppliedBias", Bins: "50 linear", Line: 3},
	}, spec.Observables)

	require.NotNil(t, spec.Model)
	assert.Equal(t, "TransportJunction", spec.Model.Type)
	assert.Equal(t, 5, spec.Model.Line)
	require.Len(t, spec.Model.Distributions, 2)
	assert.Equal(t, sim.ParameterSpec{
		Name:     "v",
		DistSpec: sim.DistSpec{Type: "uniform", Args: []float64{0, 1}},
		Line:     7,
	}, spec.Model.Distributions[1])

	require.Len(t, spec.Model.Submodels, 1)
	sub := spec.Model.Submodels[0]
	assert.Equal(t, "SymmetricOneSiteChannel", sub.Type)
	assert.Equal(t, 8, sub.Line)
	assert.Len(t, sub.Distributions, 3)
}

func TestParse_Diagnostics(t *testing.T) {
	// BDD: malformed lines are reported with their line number and skipped
	deck := `observable                                # 1: no name
frobnicate 3                                      # 2: unknown command
distribution x constant 1                         # 3: outside a model
model IdentityModel
  distribution                                    # 5: no name
  distribution parameter                          # 6: no type
  distribution parameter constant five            # 7: bad number
  trials 10                                       # 8: not a model command
  distribution parameter constant 2
endmodel
endmodel                                          # 11: stray
trials -4                                         # 12
trials                                            # 13
output                                            # 14
model IdentityModel                               # 15: second top-level model
endmodel
observable Identity
bin 5                                             # 18: incomplete
`
	spec, diags, err := Parse(strings.NewReader(deck))
	require.NoError(t, err)

	var lines []int
	for _, d := range diags {
		lines = append(lines, d.Line)
	}
	assert.Equal(t, []int{1, 2, 3, 5, 6, 7, 8, 11, 12, 13, 14, 15, 18}, lines)

	require.NotNil(t, spec.Model)
	assert.Equal(t, 4, spec.Model.Line)
	require.Len(t, spec.Model.Distributions, 1)
	assert.Equal(t, []float64{2}, spec.Model.Distributions[0].Args)
	assert.Equal(t, 0, spec.Trials)
	assert.Equal(t, sim.DefaultBins, spec.Observables[0].Bins)
}

func TestParse_MissingEndModel(t *testing.T) {
	tests := []struct {
		name     string
		deck     string
		wantLine string
	}{
		{"top level", "model IdentityModel\n distribution parameter constant 1\n", "line 1"},
		{"nested", "model TransportJunction\nmodel SymmetricOneSiteChannel\nendmodel\nmodel InterferenceChannel\n", "line 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(strings.NewReader(tt.deck))
			assert.ErrorIs(t, err, ErrMissingEndModel)
			assert.Contains(t, err.Error(), tt.wantLine)
		})
	}
}

func TestParse_BinOverrides(t *testing.T) {
	deck := `bin_y 20 log 2
observable_x Identity
observable_y Identity 10 linear
bin 7 linear
model IdentityModel
endmodel
`
	spec, diags, err := Parse(strings.NewReader(deck))
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "7 linear", spec.Observables[0].Bins)
	assert.Equal(t, "20 log 2", spec.Observables[1].Bins)

	_, diags, err = Parse(strings.NewReader("bin_y 3 linear\nobservable Identity\n"))
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "slot 1")
}

func TestParse_Assembles(t *testing.T) {
	// BDD: a parsed deck assembles into a runnable simulator
	c := sim.NewCatalog()
	require.NoError(t, sim.RegisterIdentity(c))

	deck := "observable Identity 10 linear\nmodel IdentityModel\ndistribution parameter uniform 0 1\nendmodel\n"
	spec, diags, err := Parse(strings.NewReader(deck))
	require.NoError(t, err)
	require.Empty(t, diags)

	a, diags, err := sim.Assemble(spec, c)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, 1, a.Simulator.NumObservables())
}

func TestParse_AssemblesSlotsOutOfOrder(t *testing.T) {
	// GIVEN the junction deck with observable_y listed before observable_x
	deck := strings.Replace(junctionDeck,
		"observable_x StaticConductance 100 log\nObservable_Y AppliedBias 50 linear\n",
		"Observable_Y AppliedBias 50 linear\nobservable_x StaticConductance 100 log\n", 1)
	require.NotEqual(t, junctionDeck, deck)
	spec, diags, err := Parse(strings.NewReader(deck))
	require.NoError(t, err)
	require.Empty(t, diags)

	// WHEN assembling
	c := sim.NewCatalog()
	require.NoError(t, transport.Register(c))
	a, diags, err := sim.Assemble(spec, c)
	require.NoError(t, err)

	// THEN both slots are bound in slot order with their own bin styles
	assert.Empty(t, diags)
	assert.Equal(t, []*sim.Observable{transport.StaticConductance, transport.AppliedBias}, a.Simulator.Observables())
	assert.Equal(t, []histogram.BinStyle{
		histogram.Log{NBins: 100, Base: 10},
		histogram.Linear{NBins: 50},
	}, a.Styles)
}

// === YAML ===

const junctionYAML = `model:
  type: TransportJunction
  distributions:
    - {name: ef, type: constant, args: [0]}
    - {name: v, type: uniform, args: [0, 1]}
  submodels:
    - type: SymmetricOneSiteChannel
      distributions:
        - {name: epsilon, type: normal, args: [-3, 0.5]}
        - {name: gamma, type: lognormal, args: [-3, 0.2]}
        - {name: a, type: constant, args: [0]}
observables:
  - {slot: 0, name: StaticConductance, bins: "100 log"}
  - {slot: 1, name: AppliedBias}
trials: 1000
output: hist.dat
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	spec, err := LoadYAML(writeFile(t, "run.yaml", junctionYAML))
	require.NoError(t, err)

	assert.Equal(t, 1000, spec.Trials)
	assert.Equal(t, "hist.dat", spec.Output)
	require.NotNil(t, spec.Model)
	assert.Equal(t, "TransportJunction", spec.Model.Type)
	assert.Equal(t, sim.ParameterSpec{
		Name:     "v",
		DistSpec: sim.DistSpec{Type: "uniform", Args: []float64{0, 1}},
	}, spec.Model.Distributions[1])
	require.Len(t, spec.Model.Submodels, 1)
	assert.Len(t, spec.Model.Submodels[0].Distributions, 3)
	assert.Equal(t, []sim.ObservableSpec{
		{Slot: 0, Name: "StaticConductance", Bins: "100 log"},
		{Slot: 1, Name: "AppliedBias"},
	}, spec.Observables)
}

func TestLoadYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown key", "model: {type: IdentityModel}\ntrails: 5\n", "parsing run spec"},
		{"no model", "trials: 5\n", "invalid run spec"},
		{"negative trials", "model: {type: IdentityModel}\ntrials: -5\n", "invalid run spec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadYAML(writeFile(t, "run.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	_, err := LoadYAML(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_DispatchesOnExtension(t *testing.T) {
	fromYAML, diags, err := Load(writeFile(t, "run.YML", junctionYAML))
	require.NoError(t, err)
	assert.Nil(t, diags)

	fromDeck, diags, err := Load(writeFile(t, "run.in", junctionDeck))
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, fromYAML.Model.Type, fromDeck.Model.Type)
	assert.Equal(t, fromYAML.Trials, fromDeck.Trials)

	_, _, err = Load(filepath.Join(t.TempDir(), "absent.in"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
