// Package main provides the entry point for the job match engine.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "matchd",
	Short: "Candidate-to-job match engine",
	Long:  "matchd scores candidates against the active job catalog using skill overlap and LLM-based semantic scoring, persists ranked match records, and serves them over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
