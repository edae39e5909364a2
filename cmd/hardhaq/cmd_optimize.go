package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/internal/driver"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/config"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/logger"
)

var (
	optStudyPath     string
	optLogPath       string
	optLogLevel      string
	optEngineType    string
	optMaxIterations int
	optConstraint    bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run the parameter search",
	Long: "Optimize loads a study definition, connects to the configured\n" +
		"simulation engine, and drives the derivative-free search until the\n" +
		"iteration budget or convergence tolerances are reached. Every trial\n" +
		"is appended to the CSV log as it completes.",
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optStudyPath, "study", "s", "", "path to a study YAML file (defaults to the built-in rod trap study)")
	optimizeCmd.Flags().StringVar(&optLogPath, "log", "", "override the CSV log path from the study")
	optimizeCmd.Flags().StringVar(&optLogLevel, "log-level", "", "log level: debug, info, warn, error")
	optimizeCmd.Flags().StringVar(&optEngineType, "engine", "", "engine override: bridge or fake")
	optimizeCmd.Flags().IntVar(&optMaxIterations, "max-iterations", 0, "override the optimizer iteration budget")
	optimizeCmd.Flags().BoolVar(&optConstraint, "enforce-constraint", true, "rescale trial geometry to fit the enclosing simulation sphere")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	var study *config.Study
	var err error
	if optStudyPath != "" {
		study, err = config.LoadStudy(optStudyPath)
		if err != nil {
			return fmt.Errorf("loading study: %w", err)
		}
	} else {
		study = config.DefaultStudy()
	}

	if optLogPath != "" {
		study.Log.Path = optLogPath
	}
	if optLogLevel != "" {
		study.LogLevel = optLogLevel
	}
	if optEngineType != "" {
		if optEngineType != "bridge" && optEngineType != "fake" {
			return fmt.Errorf("unknown engine type: %s", optEngineType)
		}
		study.Engine.Type = optEngineType
	}
	if optMaxIterations > 0 {
		study.Optimizer.MaxIterations = optMaxIterations
	}
	if cmd.Flags().Changed("enforce-constraint") {
		if study.Constraint == nil {
			study.Constraint = config.DefaultConstraint()
		}
		study.Constraint.Enabled = optConstraint
	}

	logger.SetDefault(logger.NewText(study.LogLevel, os.Stdout))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := driver.Run(ctx, study)
	if err != nil {
		return err
	}

	fmt.Printf("best score: %g after %d trials (%s)\n", res.BestScore, res.Trials, res.Search.Reason)
	for i, name := range res.ParamNames {
		fmt.Printf("  %s = %g\n", name, res.BestParams[i])
	}
	fmt.Printf("trial log: %s\n", res.LogPath)
	return nil
}
