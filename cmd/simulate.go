package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/molstat/molstat/sim"
	"github.com/molstat/molstat/sim/deck"
	"github.com/molstat/molstat/sim/histogram"
	"github.com/molstat/molstat/sim/store"
)

// defaultOutput is the histogram file used when neither the run spec nor
// --output names one.
const defaultOutput = "histogram.dat"

// simulateOptions carries the flags of one simulate invocation.
type simulateOptions struct {
	Path string
	Seed int64
	// Trials overrides the run spec's trial count when positive.
	Trials  int
	Workers int
	// Output overrides the run spec's output file; "-" is stdout.
	Output  string
	Density bool
	DB      string
}

var simOpts simulateOptions

var simulateCmd = &cobra.Command{
	Use:   "simulate <deck|yaml>",
	Short: "Simulate observables from a run spec and write their histogram",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := simOpts
		opts.Path = args[0]
		startTime := time.Now()
		if err := runSimulation(cmd.Context(), opts, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("simulate: %v", err)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime).Round(time.Millisecond))
	},
}

// runSimulation loads a run spec, runs the trials, bins the samples and
// writes the histogram. stdout receives the histogram when the output is
// "-".
func runSimulation(ctx context.Context, opts simulateOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	spec, diags, err := deck.Load(opts.Path)
	for _, d := range diags {
		logrus.Warnf("%s: %s", opts.Path, d)
	}
	if err != nil {
		return err
	}

	cat, err := simCatalog()
	if err != nil {
		return err
	}
	asm, diags, err := sim.Assemble(spec, cat)
	for _, d := range diags {
		logrus.Warnf("%s: %s", opts.Path, d)
	}
	if err != nil {
		return err
	}

	trials := spec.Trials
	if opts.Trials > 0 {
		trials = opts.Trials
	}
	if trials <= 0 {
		return errors.New("number of trials not specified")
	}
	observables := asm.Simulator.Observables()
	names := make([]string, len(observables))
	for i, o := range observables {
		names[i] = o.Name()
	}
	logrus.Infof("Simulating %d trials of %s for %s with seed %d",
		trials, asm.Simulator.Model().Name(), strings.Join(names, ", "), opts.Seed)

	runner := sim.Runner{Trials: trials, Workers: opts.Workers, Key: sim.NewSimulationKey(opts.Seed)}
	res, err := runner.Run(ctx, asm.Simulator)
	if err != nil {
		return err
	}
	summaries, err := sim.Summarize(res.Histogram, observables)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		logrus.Info(s)
	}

	if err := binWithFallback(res.Histogram, asm.Styles); err != nil {
		return err
	}

	output := spec.Output
	if opts.Output != "" {
		output = opts.Output
	}
	if output == "" {
		output = defaultOutput
	}
	if err := writeHistogram(res.Histogram, output, opts.Density, stdout); err != nil {
		return err
	}

	if opts.DB != "" {
		rows, err := res.Histogram.Rows(opts.Density)
		if err != nil {
			return err
		}
		db := store.NewSQLiteStore(opts.DB)
		if err := db.Init(ctx); err != nil {
			return fmt.Errorf("opening %s: %w", opts.DB, err)
		}
		defer db.Close()
		id, err := db.SaveRun(ctx, store.Run{
			Model:       asm.Simulator.Model().Name(),
			Observables: names,
			Trials:      res.Trials,
			Skipped:     res.Skipped,
			Seed:        opts.Seed,
			Density:     opts.Density,
		}, rows)
		if err != nil {
			return err
		}
		logrus.Infof("Saved run %s to %s", id, opts.DB)
	}
	return nil
}

// binWithFallback bins h, collapsing any axis whose samples all share one
// value to a single bin.
func binWithFallback(h *histogram.Histogram, styles []histogram.BinStyle) error {
	styles = append([]histogram.BinStyle(nil), styles...)
	for {
		err := h.BinData(styles)
		var de *histogram.DegenerateRangeError
		if !errors.As(err, &de) {
			return err
		}
		logrus.Warnf("all samples of axis %d share one value; using a single bin", de.Axis)
		styles[de.Axis] = histogram.Resize(styles[de.Axis], 1)
	}
}

func writeHistogram(h *histogram.Histogram, output string, density bool, stdout io.Writer) error {
	if output == "-" {
		return h.WriteText(stdout, density)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := h.WriteText(f, density); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", output, err)
	}
	logrus.Infof("Histogram written to %s", output)
	return f.Close()
}

func init() {
	simulateCmd.Flags().Int64Var(&simOpts.Seed, "seed", 42, "Seed for the random trials")
	simulateCmd.Flags().IntVar(&simOpts.Trials, "trials", 0, "Number of trials (overrides the run spec)")
	simulateCmd.Flags().IntVar(&simOpts.Workers, "workers", 1, "Number of parallel workers")
	simulateCmd.Flags().StringVar(&simOpts.Output, "output", "", "Histogram output file, or - for stdout (overrides the run spec)")
	simulateCmd.Flags().BoolVar(&simOpts.Density, "density", false, "Write probability densities instead of counts")
	simulateCmd.Flags().StringVar(&simOpts.DB, "db", "", "SQLite database to record the run in")

	rootCmd.AddCommand(simulateCmd)
}
