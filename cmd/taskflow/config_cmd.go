package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefaultConfig(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.Get().ConfigFile)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		fmt.Printf("Config file: %s\n\n", cfg.ConfigFile)
		fmt.Printf("server.host:       %s\n", cfg.Server.Host)
		fmt.Printf("server.port:       %d\n", cfg.Server.Port)
		fmt.Printf("ollama.host:       %s\n", cfg.Ollama.Host)
		fmt.Printf("ollama.model:      %s\n", cfg.Ollama.Model)
		fmt.Printf("ollama.timeout:    %ds\n", cfg.Ollama.Timeout)
		fmt.Printf("database.path:     %s\n", cfg.Database.Path)
		fmt.Printf("logging.level:     %s\n", cfg.Logging.Level)
		fmt.Printf("cache.enabled:     %t\n", cfg.Cache.Enabled)
		fmt.Printf("cache.capacity:    %d\n", cfg.Cache.Capacity)
		fmt.Printf("planner.hours_per_day:     %.1f\n", cfg.Planner.HoursPerDay)
		fmt.Printf("planner.default_timeframe: %s\n", cfg.Planner.DefaultTimeframe)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
}
