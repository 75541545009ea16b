package main

import (
	"context"

	"abacusisland/internal/app"
	"abacusisland/internal/config"
	"abacusisland/internal/logger"

	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	syllabusPath string
	verbose      bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "abacusctl",
		Short:        "Inspect the abacus syllabus and manage saved progress",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&syllabusPath, "syllabus", "", "extra syllabus YAML file (overrides SYLLABUS_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(
		newLevelsCmd(),
		newProblemCmd(),
		newBoardCmd(),
		newValidateCmd(),
		newExportCmd(),
		newImportCmd(),
		newResetCmd(),
	)
	return rootCmd
}

func cliLogger() *logger.Logger {
	if !verbose {
		return logger.NewNop()
	}
	log, err := logger.New("dev")
	if err != nil {
		return logger.NewNop()
	}
	return log
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if syllabusPath != "" {
		cfg.SyllabusPath = syllabusPath
	}
	return cfg
}

// openApp opens storage with the environment's configuration
func openApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, loadConfig(), cliLogger())
}
