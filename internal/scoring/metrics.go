// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package scoring

import (
	"fmt"
	"sort"

	"github.com/tomtom215/cadenza/internal/dataset"
)

// MetricFunc computes one ranking metric over the top-k predictions.
// gold is the relevant cluster set; preds is the deduplicated predicted
// ranking. Implementations must not mutate preds.
type MetricFunc func(gold map[dataset.ClusterID]struct{}, preds []dataset.ClusterID, k int) float64

// standardMetrics maps metric family names to their implementations.
// For background on these metrics, see
// https://en.wikipedia.org/wiki/Evaluation_measures_(information_retrieval)#Offline_metrics
var standardMetrics = map[string]MetricFunc{
	"hit":       Hit,
	"map":       AveragePrecision,
	"mrr":       ReciprocalRank,
	"precision": Precision,
	"recall":    Recall,
}

// StandardMetricNames returns the supported metric family names, sorted.
func StandardMetricNames() []string {
	names := make([]string, 0, len(standardMetrics))
	for name := range standardMetrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MetricKey formats the report column name for a metric family at cutoff k,
// e.g. "recall@10".
func MetricKey(name string, k int) string {
	return fmt.Sprintf("%s@%d", name, k)
}

// Hit returns 1 if any of the top-k predictions are relevant, else 0.
func Hit(gold map[dataset.ClusterID]struct{}, preds []dataset.ClusterID, k int) float64 {
	for _, pred := range topK(preds, k) {
		if _, ok := gold[pred]; ok {
			return 1
		}
	}
	return 0
}

// ReciprocalRank returns the reciprocal rank of the first relevant item in
// the top-k predictions; 0 if none is relevant.
func ReciprocalRank(gold map[dataset.ClusterID]struct{}, preds []dataset.ClusterID, k int) float64 {
	for i, pred := range topK(preds, k) {
		if _, ok := gold[pred]; ok {
			return 1 / float64(i+1)
		}
	}
	return 0
}

// Precision returns the fraction of the top-k predictions that are relevant.
// An empty prediction list scores 0.
func Precision(gold map[dataset.ClusterID]struct{}, preds []dataset.ClusterID, k int) float64 {
	preds = topK(preds, k)
	if len(preds) == 0 {
		return 0
	}
	return float64(numHits(gold, preds)) / float64(len(preds))
}

// Recall returns the fraction of relevant items found in the top-k
// predictions. An empty gold set scores 0; callers exclude such turns before
// aggregation.
func Recall(gold map[dataset.ClusterID]struct{}, preds []dataset.ClusterID, k int) float64 {
	if len(gold) == 0 {
		return 0
	}
	return float64(numHits(gold, topK(preds, k))) / float64(len(gold))
}

// AveragePrecision returns the average precision over the top-k predictions.
// The denominator is min(|gold|, k-truncated prediction count), so a ranking
// that places every relevant item first scores 1.0.
func AveragePrecision(gold map[dataset.ClusterID]struct{}, preds []dataset.ClusterID, k int) float64 {
	preds = topK(preds, k)

	denom := len(gold)
	if len(preds) < denom {
		denom = len(preds)
	}
	if denom == 0 {
		return 0
	}

	hits := 0
	total := 0.0
	for i, pred := range preds {
		if _, ok := gold[pred]; ok {
			hits++
			total += float64(hits) / float64(i+1)
		}
	}
	return total / float64(denom)
}

// topK truncates preds to its first k entries without copying.
func topK(preds []dataset.ClusterID, k int) []dataset.ClusterID {
	if k < len(preds) {
		return preds[:k]
	}
	return preds
}

// numHits counts predictions present in the gold set. preds must already be
// deduplicated, so each hit counts a distinct relevant cluster.
func numHits(gold map[dataset.ClusterID]struct{}, preds []dataset.ClusterID) int {
	hits := 0
	for _, pred := range preds {
		if _, ok := gold[pred]; ok {
			hits++
		}
	}
	return hits
}

// ComputeMetrics evaluates every requested metric family at every cutoff for
// one turn. gold and preds must be deduplicated cluster lists (ClusterIDs).
// The result maps "family@k" keys to scores. An unknown family name is an
// error; config validation normally rejects it before scoring starts.
func ComputeMetrics(preds, gold []dataset.ClusterID, metrics []string, kValues []int) (map[string]float64, error) {
	goldSet := make(map[dataset.ClusterID]struct{}, len(gold))
	for _, id := range gold {
		goldSet[id] = struct{}{}
	}

	values := make(map[string]float64, len(metrics)*len(kValues))
	for _, name := range metrics {
		fn, ok := standardMetrics[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
		for _, k := range kValues {
			values[MetricKey(name, k)] = fn(goldSet, preds, k)
		}
	}
	return values, nil
}
