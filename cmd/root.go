// Package cmd implements the relmgr command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger  *zap.Logger
	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "relmgr",
	Short: "relmgr manages the release lifecycle of a binary distribution",
	Long: "relmgr tracks released versions in a durable manifest, drives release\n" +
		"candidates through build, validation, tagging and publishing, and promotes\n" +
		"them atomically to \"latest\".",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("relmgr: run 'relmgr --help' to see available commands")
	},
}

// Execute executes the root command. Guard failures exit non-zero with a
// machine-readable error kind on stderr.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", kindOf(err), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print collaborator commands instead of running them")
}
