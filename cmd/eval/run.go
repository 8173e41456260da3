// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tomtom215/cadenza/internal/config"
	"github.com/tomtom215/cadenza/internal/dataset"
	"github.com/tomtom215/cadenza/internal/logging"
	"github.com/tomtom215/cadenza/internal/scoring"
)

// runEval scores one model-output file and writes the CSV report.
func runEval(cfg *config.Config, modelOutput, output string) error {
	logging.Info().
		Str("model_output", modelOutput).
		Str("gold_data", cfg.Paths.GoldData).
		Msg("Loading inputs")

	conversations, err := dataset.LoadConversations(cfg.Paths.GoldData)
	if err != nil {
		return fmt.Errorf("load gold data: %w", err)
	}
	if cfg.Paths.Tracks != "" {
		tracks, err := dataset.LoadTracks(cfg.Paths.Tracks)
		if err != nil {
			return fmt.Errorf("load track metadata: %w", err)
		}
		dataset.ApplyTrackOverlay(conversations, tracks)
	}

	predictions, err := dataset.LoadPredictions(modelOutput)
	if err != nil {
		return fmt.Errorf("load model output: %w", err)
	}
	if err := dataset.Align(predictions, conversations); err != nil {
		return fmt.Errorf("align predictions: %w", err)
	}

	engine := scoring.NewEngine(scoring.Config{
		Metrics:       cfg.Scoring.Metrics,
		KValues:       cfg.Scoring.KValues,
		Target:        cfg.Scoring.Target,
		NumSeedTracks: cfg.Scoring.NumSeedTracks,
		MaxTurns:      cfg.Scoring.MaxTurns,
	})
	result, err := engine.Score(conversations, predictions)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}

	meta := scoring.NewMetadata(modelOutput, cfg.Paths.GoldData)
	if err := scoring.WriteReportFile(output, result, meta); err != nil {
		return err
	}

	logging.Info().
		Str("output", output).
		Str("run_id", meta.RunID).
		Msg("Report written")
	return nil
}

// runBatch scores every model-output file matching the glob, sequentially.
// Each file is an independent run writing its own report; failures are
// logged and counted rather than aborting the remaining files.
func runBatch(cfg *config.Config, modelOutputDir, glob, outputDir string) error {
	pattern := filepath.Join(modelOutputDir, glob)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no model-output files match %s", pattern)
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	failed := 0
	for _, modelOutput := range matches {
		output := filepath.Join(outputDir, reportName(modelOutput))
		if err := runEval(cfg, modelOutput, output); err != nil {
			logging.Error().
				Err(err).
				Str("model_output", modelOutput).
				Msg("Evaluation failed")
			failed++
		}
	}

	logging.Info().
		Int("scored", len(matches)-failed).
		Int("failed", failed).
		Msg("Batch complete")

	if failed > 0 {
		return fmt.Errorf("%d of %d evaluations failed", failed, len(matches))
	}
	return nil
}

// reportName derives a report filename from a model-output path:
// "bm25.test.jsonl" -> "bm25.test.csv".
func reportName(modelOutput string) string {
	base := filepath.Base(modelOutput)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
}
