// Package main provides the entry point for the card advisor service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "card_advisor",
	Short: "Credit card advisor service",
	Long:  "Card advisor fills a user profile from conversational payloads and recommends credit cards by estimated net annual benefit, over a REST API or one-shot CLI runs.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file (optional)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
