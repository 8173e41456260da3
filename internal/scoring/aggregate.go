// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package scoring

// RollingAverage maintains a running mean without storing samples.
type RollingAverage struct {
	Value float64
	Count int
}

// Update folds one sample into the running average and returns the new mean.
func (a *RollingAverage) Update(value float64) float64 {
	a.Count++
	a.Value += (value - a.Value) / float64(a.Count)
	return a.Value
}

// MetricSummary accumulates corpus-level averages for a single metric:
//
//   - Macro: each conversation contributes its mean over computable turns,
//     weighted equally regardless of length.
//   - Micro: every computable turn contributes equally.
//   - PerTurn: averages bucketed by turn index, up to a configured bound.
type MetricSummary struct {
	Macro   RollingAverage
	Micro   RollingAverage
	PerTurn []RollingAverage
}

func newMetricSummary(maxTurns int) *MetricSummary {
	return &MetricSummary{PerTurn: make([]RollingAverage, maxTurns)}
}

// update folds one conversation's per-turn values into the summary.
// turnIdx carries the original turn index for each value, for the per-turn
// buckets.
func (s *MetricSummary) update(values []float64, turnIdx []int) {
	if len(values) == 0 {
		return
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	s.Macro.Update(sum / float64(len(values)))

	for i, v := range values {
		s.Micro.Update(v)
		if idx := turnIdx[i]; idx < len(s.PerTurn) {
			s.PerTurn[idx].Update(v)
		}
	}
}

// Summary aggregates per-turn scores into corpus-level averages for every
// metric. Turns with an empty relevant set are excluded from every average;
// missing predictions count as zero everywhere.
type Summary struct {
	// Keys lists the metric column names ("family@k") in report order.
	Keys []string

	maxTurns int
	metrics  map[string]*MetricSummary
}

// NewSummary creates a Summary accumulating the given metric families at the
// given cutoffs. Column order is families in the given order, cutoffs
// ascending within each family.
func NewSummary(metricNames []string, kValues []int, maxTurns int) *Summary {
	keys := make([]string, 0, len(metricNames)*len(kValues))
	metrics := make(map[string]*MetricSummary, len(metricNames)*len(kValues))
	for _, name := range metricNames {
		for _, k := range kValues {
			key := MetricKey(name, k)
			keys = append(keys, key)
			metrics[key] = newMetricSummary(maxTurns)
		}
	}
	return &Summary{
		Keys:     keys,
		maxTurns: maxTurns,
		metrics:  metrics,
	}
}

// MaxTurns returns the per-turn bucket bound.
func (s *Summary) MaxTurns() int {
	return s.maxTurns
}

// Metric returns the accumulated summary for one metric key, or nil if the
// key is unknown.
func (s *Summary) Metric(key string) *MetricSummary {
	return s.metrics[key]
}

// AddConversation folds one conversation's turn scores into the summary.
// The scores must all belong to the same conversation.
func (s *Summary) AddConversation(scores []TurnScore) {
	for _, key := range s.Keys {
		var (
			values  []float64
			turnIdx []int
		)
		for _, score := range scores {
			if !score.Computable() {
				continue
			}
			values = append(values, score.Values[key])
			turnIdx = append(turnIdx, score.Turn)
		}
		s.metrics[key].update(values, turnIdx)
	}
}

// ConversationMeans returns the mean per metric key over the computable
// turns of one conversation, and the number of turns averaged. A
// conversation with no computable turns returns (nil, 0).
func ConversationMeans(keys []string, scores []TurnScore) (map[string]float64, int) {
	count := 0
	sums := make(map[string]float64, len(keys))
	for _, score := range scores {
		if !score.Computable() {
			continue
		}
		count++
		for _, key := range keys {
			sums[key] += score.Values[key]
		}
	}
	if count == 0 {
		return nil, 0
	}

	means := make(map[string]float64, len(keys))
	for _, key := range keys {
		means[key] = sums[key] / float64(count)
	}
	return means, count
}
