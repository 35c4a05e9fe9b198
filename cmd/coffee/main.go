package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	exportDir  string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coffee",
	Short: "Coffee yield forecasting from agronomic readings",
	Long: `coffee validates 25 agronomic readings of a coffee plot, asks the prediction
service for a growth and yield forecast and saves the result as a workbook.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if exportDir != "" {
			cfg.ExportDir = exportDir
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "coffee.yaml", "YAML config file (env vars override it)")
	rootCmd.PersistentFlags().StringVar(&exportDir, "export-dir", "", "Directory granted for workbooks (overrides EXPORT_DIR)")

	exportsCmd.AddCommand(exportsListCmd)
	exportsCmd.AddCommand(exportsShowCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(simulateCmd)
}

// shutdownGrace bounds graceful HTTP/gRPC shutdown.
const shutdownGrace = 5 * time.Second

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
