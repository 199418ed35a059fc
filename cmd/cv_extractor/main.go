// Package main provides the entry point for the CV extractor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cv_extractor",
	Short: "CV information extraction and model evaluation",
	Long:  "cv_extractor pulls structured candidate records out of CV documents using local and hosted language models, and scores model output against ground truth.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
