package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon health",
	RunE: func(cmd *cobra.Command, args []string) error {
		health, err := CheckHealth()
		if health == nil {
			fmt.Println("Daemon:   not running")
			return err
		}

		fmt.Printf("Daemon:   %s\n", health.Status)
		fmt.Printf("Database: %s\n", health.Database)
		fmt.Printf("Ollama:   %s", health.Ollama.Status)
		if health.Ollama.Model != "" {
			fmt.Printf(" (%s)", health.Ollama.Model)
		}
		fmt.Println()
		return nil
	},
}
