// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

// commands.go contains the cobra command definitions and their flag
// configurations. Each command builder creates a command and wires it to its
// handler in run.go.

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/cadenza/internal/config"
	"github.com/tomtom215/cadenza/internal/logging"
)

// buildRootCmd creates the root command with shared configuration loading.
func buildRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score model rankings against conversational recommendation gold data",
		Long: `Cadenza evaluates model-produced track rankings against gold dialogs.

Predictions are aligned to gold turns by docid ("<conversation_id>:<turn_index>"),
near-duplicate tracks are collapsed into clusters, and ranking metrics
(hit@k, mrr@k, precision@k, recall@k, map@k) are computed per turn and
aggregated into per-conversation and corpus averages.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to YAML configuration file (default: eval.yaml, or $CONFIG_PATH)")

	cmd.AddCommand(buildRunCmd(&configPath))
	cmd.AddCommand(buildBatchCmd(&configPath))

	return cmd
}

// buildRunCmd creates the "run" command scoring a single model-output file.
func buildRunCmd(configPath *string) *cobra.Command {
	var (
		modelOutput string
		goldData    string
		tracks      string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score one model-output file and write a CSV report",
		Example: `  # Score a retrieval run against the test split
  eval run --model_output model_output/bm25.test.jsonl \
      --gold_data data/dialogs.test.jsonl \
      --output scores/bm25.test.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			applyPathOverrides(cfg, goldData, tracks)
			if output == "" {
				output = cfg.Paths.Output
			}
			return runEval(cfg, modelOutput, output)
		},
	}

	cmd.Flags().StringVar(&modelOutput, "model_output", "",
		"Path to JSONL file containing model predictions")
	cmd.Flags().StringVar(&goldData, "gold_data", "",
		"Path to gold dialog data (default: configured paths.gold_data)")
	cmd.Flags().StringVar(&tracks, "tracks", "",
		"Optional global track-metadata file overlaying per-conversation tracks")
	cmd.Flags().StringVar(&output, "output", "",
		"Where to write the CSV report (default: configured paths.output)")
	_ = cmd.MarkFlagRequired("model_output")

	return cmd
}

// buildBatchCmd creates the "batch" command scoring every model-output file
// matching a glob pattern.
func buildBatchCmd(configPath *string) *cobra.Command {
	var (
		modelOutputDir string
		glob           string
		goldData       string
		tracks         string
		outputDir      string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Score every matching model-output file in a directory",
		Long: `Score every model-output file matching the glob pattern, sequentially,
writing one CSV report per input file into the output directory. Reports are
named after their input file with the extension replaced by .csv.

Files that fail to score are reported and skipped; the command exits
non-zero if any file failed.`,
		Example: `  eval batch --model_output_dir model_output --glob '*.test.jsonl' \
      --output_dir scores`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			applyPathOverrides(cfg, goldData, tracks)
			return runBatch(cfg, modelOutputDir, glob, outputDir)
		},
	}

	cmd.Flags().StringVar(&modelOutputDir, "model_output_dir", "",
		"Directory containing model-output JSONL files")
	cmd.Flags().StringVar(&glob, "glob", "*.jsonl",
		"Glob pattern selecting model-output files within the directory")
	cmd.Flags().StringVar(&goldData, "gold_data", "",
		"Path to gold dialog data (default: configured paths.gold_data)")
	cmd.Flags().StringVar(&tracks, "tracks", "",
		"Optional global track-metadata file overlaying per-conversation tracks")
	cmd.Flags().StringVar(&outputDir, "output_dir", "",
		"Directory to write CSV reports into")
	_ = cmd.MarkFlagRequired("model_output_dir")
	_ = cmd.MarkFlagRequired("output_dir")

	return cmd
}

// loadConfig loads the layered configuration and initializes logging from it.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return cfg, nil
}

// applyPathOverrides applies non-empty CLI path flags over the configured
// defaults.
func applyPathOverrides(cfg *config.Config, goldData, tracks string) {
	if goldData != "" {
		cfg.Paths.GoldData = goldData
	}
	if tracks != "" {
		cfg.Paths.Tracks = tracks
	}
}
