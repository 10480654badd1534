// Package sim simulates single-molecule observables by Monte Carlo sampling.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - model.go: Model, the frozen Node tree and its parameter layout
//   - factory.go: ModelFactory, which attaches distributions and submodels
//   - observable.go: Observable capability binding by interface
//   - simulator.go: one trial, from sampled parameters to observable values
//   - runner.go: parallel trials collected into a histogram
//
// # Architecture
//
// The sim package defines interfaces and bridge types; implementations live in
// sub-packages:
//   - sim/histogram/: CounterIndex, bin styles and the two-phase Histogram
//   - sim/transport/: electron-transport junctions and their channels
//   - sim/echem/: electrochemical reaction models
//   - sim/deck/: input deck and YAML run-spec loaders
//   - sim/store/: SQLite persistence of binned runs
//
// Sub-packages expose a Register function that adds their models and
// observables to a Catalog. Assemble turns a RunSpec into a Simulator using
// that catalog.
//
// # Key Interfaces
//
//   - Model: declares parameter names; capability interfaces add observables
//   - CompositeModel: accepts submodels of one kind and combines their observables
//   - RandomDistribution: draws one parameter value from the caller's RNG
//   - histogram.BinStyle: maps raw values into the space where bins are uniform
package sim
