package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/molstat/molstat/fit"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available models, observables and fit models",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeCatalog(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("list: %v", err)
		}
	},
}

func writeCatalog(w io.Writer) error {
	sc, err := simCatalog()
	if err != nil {
		return err
	}
	fc, err := fitCatalog()
	if err != nil {
		return err
	}
	for _, section := range []struct {
		title string
		names []string
	}{
		{"Models", sc.Models()},
		{"Observables", sc.Observables()},
		{"Fit models", fc.Names()},
		{"Fit methods", fit.Methods()},
	} {
		fmt.Fprintf(w, "%s:\n", section.title)
		for _, n := range section.names {
			fmt.Fprintf(w, "  %s\n", n)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
}
