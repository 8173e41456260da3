// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

// Package main is the entry point for the Cadenza evaluation CLI.
//
// Cadenza scores model-produced track rankings against recorded
// conversational recommendation dialogs. A run loads the gold dialog file
// and one model-output file, aligns predictions to gold turns by docid,
// collapses near-duplicate tracks into clusters, computes ranking metrics
// per turn, and writes a CSV report with per-turn rows and per-conversation
// and corpus summaries.
//
// # Commands
//
// Single evaluation:
//
//	eval run --model_output model_output/bm25.test.jsonl \
//	    --gold_data data/dialogs.test.jsonl \
//	    --output scores/bm25.test.csv
//
// Batch over a directory of model outputs:
//
//	eval batch --model_output_dir model_output --glob '*.test.jsonl' \
//	    --output_dir scores
//
// # Configuration
//
// Settings (metric families, k values, scoring target, default paths) are
// loaded via Koanf v2 with layered sources, highest priority last: built-in
// defaults, an optional eval.yaml config file, EVAL_-prefixed environment
// variables. CLI flags override the configured paths per invocation.
//
// # Exit Status
//
// The process exits 0 on success and 1 on any parse, alignment, or I/O
// failure, with the reason on standard error. Missing predictions and turns
// with an empty relevant set are not failures; they are recorded in the
// report.
package main

import (
	"os"
)

func main() {
	root := buildRootCmd()
	if err := root.Execute(); err != nil {
		// cobra has already printed the error to stderr.
		os.Exit(1)
	}
}
