package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/config"
	"github.com/taskflow-ai/taskflow/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "taskflow - AI-assisted project planning",
	Long:  `taskflow turns a goal and a timeframe into a scheduled, dependency-ordered task plan using a local Ollama model.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg := config.Get()
		level := logger.ParseLevel(cfg.Logging.Level)
		if err := logger.Init(level, cfg.Logging.LogFile, cfg.Logging.Persist); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	cfgFile string
	apiAddr string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.taskflow/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "http://127.0.0.1:8000", "API server address")

	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
