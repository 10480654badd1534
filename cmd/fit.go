package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/molstat/molstat/fit"
	"github.com/molstat/molstat/sim/histogram"
)

// fitOptions carries the flags of one fit invocation.
type fitOptions struct {
	Path  string
	Model string
	// Raw data are binned with Bins, BinStyle and Base before fitting.
	Raw      bool
	Bins     int
	BinStyle string
	Base     float64
	// Guesses holds one "name=value ..." string per start, or "default"
	// for the model's default starts.
	Guesses []string
	Method  string
	MaxIter int
}

var fitOpts fitOptions

var fitCmd = &cobra.Command{
	Use:   "fit <data>",
	Short: "Fit a line shape to histogram or raw observable data",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := fitOpts
		opts.Path = args[0]
		if err := runFit(opts, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("fit: %v", err)
		}
	},
}

func runFit(opts fitOptions, out io.Writer) error {
	cat, err := fitCatalog()
	if err != nil {
		return err
	}
	if opts.Model == "" {
		return fmt.Errorf("no fit model given; choose one of %s", strings.Join(cat.Names(), ", "))
	}
	m, err := cat.New(opts.Model)
	if err != nil {
		return err
	}

	points, err := loadPoints(opts)
	if err != nil {
		return err
	}
	logrus.Infof("Fitting %s to %d points from %s", opts.Model, len(points), opts.Path)

	guesses, err := startingGuesses(m, opts.Guesses)
	if err != nil {
		return err
	}
	res, err := fit.Solve(m, points, guesses, fit.Options{Method: opts.Method, MaxIterations: opts.MaxIter})
	if err != nil {
		return err
	}

	sum := fit.SummarizeStarts(res.Starts)
	logrus.Infof("%d of %d starts accepted (%d rejected, %d failed); best start %d",
		sum.Accepted, sum.Total, sum.Rejected, sum.Failed, res.Start)

	fmt.Fprintf(out, "Resid = %.6e\n", res.Resid)
	fmt.Fprintln(out, m.Format(res.Params))
	fmt.Fprintln(out, "Standard errors:")
	fmt.Fprintln(out, m.Format(res.StdErr))
	return nil
}

func loadPoints(opts fitOptions) ([]fit.Point, error) {
	f, err := os.Open(opts.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !opts.Raw {
		pts, err := fit.ReadPoints(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", opts.Path, err)
		}
		return pts, nil
	}
	samples, err := fit.ReadSamples(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.Path, err)
	}
	var args []float64
	if strings.EqualFold(opts.BinStyle, "log") {
		args = []float64{opts.Base}
	}
	style, err := histogram.NewBinStyle(opts.Bins, opts.BinStyle, args...)
	if err != nil {
		return nil, err
	}
	pts, err := fit.BinSamples(samples, style)
	var de *histogram.DegenerateRangeError
	if errors.As(err, &de) {
		// one bin gives one point, which no line shape can be fitted to
		return nil, fmt.Errorf("all %d samples in %s equal %g; nothing to fit: %w",
			len(samples), opts.Path, samples[0], err)
	}
	return pts, err
}

// startingGuesses turns the --guess values into starts. With none the
// model's defaults are used; "default" adds them alongside user starts.
func startingGuesses(m fit.Model, specs []string) ([][]float64, error) {
	var out [][]float64
	for _, s := range specs {
		if strings.EqualFold(strings.TrimSpace(s), "default") {
			out = append(out, m.DefaultGuesses()...)
			continue
		}
		g, err := m.InitialGuess(fit.ParseGuess(s))
		if err != nil {
			return nil, fmt.Errorf("guess %q: %w", s, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func init() {
	fitCmd.Flags().StringVar(&fitOpts.Model, "model", "", "Fit model name")
	fitCmd.Flags().BoolVar(&fitOpts.Raw, "raw", false, "Input holds raw observations to bin before fitting")
	fitCmd.Flags().IntVar(&fitOpts.Bins, "bins", 100, "Number of bins for raw data")
	fitCmd.Flags().StringVar(&fitOpts.BinStyle, "bin-style", "linear", "Bin style for raw data (linear, log)")
	fitCmd.Flags().Float64Var(&fitOpts.Base, "base", 10, "Logarithm base for log binning")
	fitCmd.Flags().StringArrayVar(&fitOpts.Guesses, "guess", nil, `Initial guess as "name=value ..." (repeatable; "default" for the built-in starts)`)
	fitCmd.Flags().StringVar(&fitOpts.Method, "method", fit.DefaultMethod, "Optimization method ("+strings.Join(fit.Methods(), ", ")+")")
	fitCmd.Flags().IntVar(&fitOpts.MaxIter, "max-iter", fit.DefaultMaxIterations, "Maximum iterations per start")

	rootCmd.AddCommand(fitCmd)
}
