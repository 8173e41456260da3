// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

// Package scoring computes ranking-quality metrics for conversational
// recommendation runs and aggregates them into CSV reports.
//
// # Pipeline
//
// Scoring is a flat, single-pass pipeline:
//
//	dedup -> per-turn metrics -> aggregation -> report
//
// Track ids are first collapsed to cluster ids (ClusterIDs), so that
// near-duplicate tracks (the same song across releases or encodings) are
// never double-counted as hits and never double-penalize a ranking. All
// metric computation then operates on cluster ids: a predicted cluster is a
// hit if and only if it matches a relevant cluster.
//
// # Metrics
//
// The standard metric families are hit rate, reciprocal rank, precision,
// recall, and average precision, each evaluated at a set of ranking cutoffs
// (k values). The set of families and cutoffs is configurable; defaults
// match the published reference results.
//
// # Degenerate turns
//
// Two turn-level conditions are reported rather than fatal:
//
//   - A gold turn with no prediction scores zero on every metric and counts
//     in every average, penalizing incomplete submissions.
//   - A turn whose relevant set is empty after deduplication is not
//     computable; it is excluded from averages and carries a placeholder in
//     the report.
//
// # Determinism
//
// Same inputs produce identical data rows: conversations are scored in
// sorted id order, turns in index order, and predicted rankings are never
// re-ordered. Only the report's identification header (run id, generation
// time) differs between runs.
package scoring
