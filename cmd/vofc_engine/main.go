// Package main provides the entry point for the VOFC extraction engine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vofc_engine",
	Short: "VOFC extraction engine",
	Long:  "Converts security-assessment documents into linked vulnerability and option-for-consideration records, with optional model-driven extraction and PostgreSQL persistence.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
