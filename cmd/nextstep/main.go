// Package main provides the entry point for the NextStep job ingestion CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nextstep",
	Short: "NextStep job market ingestion pipeline",
	Long:  "NextStep scrapes Kenyan job boards, extracts structured job data with AI enrichment, and stores deduplicated postings in PostgreSQL.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
