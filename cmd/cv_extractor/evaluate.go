package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-extractor/internal/db"
	"github.com/jonathan/cv-extractor/internal/eval"
	"github.com/jonathan/cv-extractor/internal/store"
)

var evaluateCommand = &cobra.Command{
	Use:   "evaluate [documents...]",
	Short: "Extract and score candidate records against ground truth",
	Long: `Runs the extraction pipeline for each document, then scores every model's record against the matching ground truth file.

Ground truth is a directory of JSON files shaped like candidate records, keyed by an explicit "id" field or the filename stem. Documents without ground truth are skipped, not failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEvaluateCmd,
}

var (
	evaluateFlags          commonFlags
	evaluateGroundTruthDir string
)

func init() {
	evaluateFlags.register(evaluateCommand)
	evaluateCommand.Flags().StringVarP(&evaluateGroundTruthDir, "ground-truth", "g", "", "Directory of ground truth JSON files")
	rootCmd.AddCommand(evaluateCommand)
}

func runEvaluateCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := evaluateFlags.resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("ground-truth") {
		cfg.GroundTruthDir = evaluateGroundTruthDir
	}

	cache := eval.NewGroundTruthCache(cfg.GroundTruthDir)
	if err := cache.Load(); err != nil {
		return fmt.Errorf("failed to load ground truth: %w", err)
	}
	if cache.Len() == 0 {
		return fmt.Errorf("no ground truth records found in %s", cfg.GroundTruthDir)
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

	aggregator := eval.NewAggregator()
	for _, doc := range docs {
		docID := store.DocumentID(doc)

		groundTruth, err := cache.Get(docID)
		if err != nil {
			var missing *eval.GroundTruthMissingError
			if errors.As(err, &missing) {
				fmt.Printf("Skipping %s: no ground truth\n", docID)
				aggregator.SkipDocument(docID)
				continue
			}
			return err
		}

		fmt.Printf("Processing %s...\n", doc)
		results, err := rt.orch.Process(ctx, doc, evaluateFlags.models)
		if err != nil {
			fmt.Printf("Error: %s: %v\n", doc, err)
			// The document had ground truth but produced nothing; every
			// requested model is scored as absent.
			for _, model := range requestedModels(rt, evaluateFlags.models) {
				aggregator.Add(eval.ScoreAbsent(model, docID))
			}
			continue
		}

		if cfg.Verbose {
			rt.printer.PrintModelResults(docID, results)
		}

		for model, result := range results {
			if result.Record == nil {
				aggregator.Add(eval.ScoreAbsent(model, docID))
			} else {
				aggregator.Add(eval.Score(result.Record, groundTruth, docID))
			}

			if rt.database != nil {
				if err := rt.database.SaveModelResult(ctx, rt.runID, docID, model, result); err != nil {
					fmt.Printf("Warning: Failed to persist result for %s/%s: %v\n", docID, model, err)
				}
			}
		}
	}

	report := aggregator.Report()
	rt.printer.PrintEvaluationReport(&report)

	if rt.database != nil {
		if _, err := rt.database.SaveEvaluationReport(ctx, rt.runID, &report); err != nil {
			fmt.Printf("Warning: Failed to persist evaluation report: %v\n", err)
		}
		if err := rt.database.CompleteRun(ctx, rt.runID, db.RunStatusCompleted); err != nil {
			fmt.Printf("Warning: Failed to complete database run: %v\n", err)
		}
	}
	return nil
}

// requestedModels resolves an explicit model list, defaulting to every
// routed model.
func requestedModels(rt *runtime, models []string) []string {
	if len(models) > 0 {
		return models
	}
	return rt.orch.ModelIDs()
}
