package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/internal/engine"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "hardhaq",
	Short: "Ion trap design optimization against an external field solver",
	Long: "Hardhaq sweeps the geometric and electrical parameters of an ion trap\n" +
		"model through an external simulation engine, scores every trial with a\n" +
		"weighted objective, and logs the full search to CSV.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, engine.ErrNoModelFile) {
			// Distinct code so wrappers can tell "drop a model file here"
			// apart from engine faults.
			os.Exit(2)
		}
		os.Exit(1)
	}
}
