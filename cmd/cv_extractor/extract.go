package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-extractor/internal/db"
	"github.com/jonathan/cv-extractor/internal/store"
)

var extractCommand = &cobra.Command{
	Use:   "extract [documents...]",
	Short: "Extract candidate records from CV documents",
	Long: `Runs the extraction pipeline for each document: native text (or OCR fallback) -> prompt -> model backends with fallback -> normalized candidate record.

Arguments are PDF files or directories of PDFs. Each requested model produces one record per document; per-model failures are reported without aborting the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtractCmd,
}

var extractFlags commonFlags

func init() {
	extractFlags.register(extractCommand)
	rootCmd.AddCommand(extractCommand)
}

func runExtractCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := extractFlags.resolveConfig(cmd)
	if err != nil {
		return err
	}

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	docs, err := collectDocuments(args)
	if err != nil {
		return err
	}

	var failedDocs int
	for _, doc := range docs {
		docID := store.DocumentID(doc)
		fmt.Printf("Processing %s...\n", doc)

		results, err := rt.orch.Process(ctx, doc, extractFlags.models)
		if err != nil {
			fmt.Printf("Error: %s: %v\n", doc, err)
			failedDocs++
			continue
		}

		rt.printer.PrintModelResults(docID, results)
		if cfg.Verbose {
			for _, result := range results {
				rt.printer.PrintCandidateRecord(result.Record)
			}
		}

		if rt.database != nil {
			for model, result := range results {
				if err := rt.database.SaveModelResult(ctx, rt.runID, docID, model, result); err != nil {
					fmt.Printf("Warning: Failed to persist result for %s/%s: %v\n", docID, model, err)
				}
			}
		}
	}

	if rt.database != nil {
		status := db.RunStatusCompleted
		if failedDocs == len(docs) {
			status = db.RunStatusFailed
		}
		if err := rt.database.CompleteRun(ctx, rt.runID, status); err != nil {
			fmt.Printf("Warning: Failed to complete database run: %v\n", err)
		}
	}

	if failedDocs == len(docs) {
		return fmt.Errorf("all %d documents failed", len(docs))
	}
	if failedDocs > 0 {
		fmt.Printf("Done with %d of %d documents failing acquisition.\n", failedDocs, len(docs))
		return nil
	}
	fmt.Printf("Done! Processed %d documents.\n", len(docs))
	return nil
}
