// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package scoring

import (
	"testing"
)

func TestRollingAverage(t *testing.T) {
	var avg RollingAverage

	steps := []struct {
		value float64
		want  float64
	}{
		{1.0, 1.0},
		{0.0, 0.5},
		{0.5, 0.5},
		{2.0, 0.875},
	}

	for i, step := range steps {
		got := avg.Update(step.value)
		if !almostEqual(got, step.want) {
			t.Errorf("step %d: Update(%v) = %v, want %v", i, step.value, got, step.want)
		}
	}
	if avg.Count != len(steps) {
		t.Errorf("Count = %d, want %d", avg.Count, len(steps))
	}
}

func TestMetricSummaryUpdate(t *testing.T) {
	s := newMetricSummary(3)

	// Conversation 1: turns 0 and 1.
	s.update([]float64{1.0, 0.0}, []int{0, 1})
	// Conversation 2: turn 0 only.
	s.update([]float64{0.5}, []int{0})

	// Macro: mean of conversation means (0.5 and 0.5).
	if !almostEqual(s.Macro.Value, 0.5) || s.Macro.Count != 2 {
		t.Errorf("Macro = %v/%d, want 0.5/2", s.Macro.Value, s.Macro.Count)
	}
	// Micro: mean over all turns (1, 0, 0.5).
	if !almostEqual(s.Micro.Value, 0.5) || s.Micro.Count != 3 {
		t.Errorf("Micro = %v/%d, want 0.5/3", s.Micro.Value, s.Micro.Count)
	}
	// Turn 0 bucket: 1.0 and 0.5.
	if !almostEqual(s.PerTurn[0].Value, 0.75) || s.PerTurn[0].Count != 2 {
		t.Errorf("PerTurn[0] = %v/%d, want 0.75/2", s.PerTurn[0].Value, s.PerTurn[0].Count)
	}
	// Turn 1 bucket: 0.0 only.
	if !almostEqual(s.PerTurn[1].Value, 0.0) || s.PerTurn[1].Count != 1 {
		t.Errorf("PerTurn[1] = %v/%d, want 0/1", s.PerTurn[1].Value, s.PerTurn[1].Count)
	}
	// Turn 2 bucket: untouched.
	if s.PerTurn[2].Count != 0 {
		t.Errorf("PerTurn[2].Count = %d, want 0", s.PerTurn[2].Count)
	}
}

func TestMetricSummaryUpdate_TurnBeyondBucketBound(t *testing.T) {
	s := newMetricSummary(2)

	// Turn index 5 exceeds the bucket bound; still counts in macro/micro.
	s.update([]float64{1.0}, []int{5})

	if s.Micro.Count != 1 {
		t.Errorf("Micro.Count = %d, want 1", s.Micro.Count)
	}
	if s.PerTurn[0].Count != 0 || s.PerTurn[1].Count != 0 {
		t.Error("out-of-range turn index must not touch buckets")
	}
}

func TestSummaryKeyOrder(t *testing.T) {
	s := NewSummary([]string{"hit", "recall"}, []int{1, 10}, 5)

	want := []string{"hit@1", "hit@10", "recall@1", "recall@10"}
	if len(s.Keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", s.Keys, want)
	}
	for i := range want {
		if s.Keys[i] != want[i] {
			t.Errorf("Keys[%d] = %q, want %q", i, s.Keys[i], want[i])
		}
	}
}

func TestSummaryAddConversation_ExcludesEmptyRelevantSet(t *testing.T) {
	key := MetricKey("hit", 1)

	withEmpty := NewSummary([]string{"hit"}, []int{1}, 5)
	withEmpty.AddConversation([]TurnScore{
		{Conversation: "c1", Turn: 0, Status: StatusScored, Values: map[string]float64{key: 1.0}},
		{Conversation: "c1", Turn: 1, Status: StatusEmptyRelevantSet},
		{Conversation: "c1", Turn: 2, Status: StatusScored, Values: map[string]float64{key: 0.0}},
	})

	without := NewSummary([]string{"hit"}, []int{1}, 5)
	without.AddConversation([]TurnScore{
		{Conversation: "c1", Turn: 0, Status: StatusScored, Values: map[string]float64{key: 1.0}},
		{Conversation: "c1", Turn: 2, Status: StatusScored, Values: map[string]float64{key: 0.0}},
	})

	gotWith := withEmpty.Metric(key)
	gotWithout := without.Metric(key)
	if !almostEqual(gotWith.Macro.Value, gotWithout.Macro.Value) {
		t.Errorf("macro with empty turn %v != without %v", gotWith.Macro.Value, gotWithout.Macro.Value)
	}
	if gotWith.Micro.Count != 2 {
		t.Errorf("Micro.Count = %d, want 2 (empty turn excluded)", gotWith.Micro.Count)
	}
	if !almostEqual(gotWith.Macro.Value, 0.5) {
		t.Errorf("Macro.Value = %v, want 0.5", gotWith.Macro.Value)
	}
}

func TestSummaryAddConversation_MissingPredictionCounts(t *testing.T) {
	key := MetricKey("hit", 1)
	s := NewSummary([]string{"hit"}, []int{1}, 5)

	s.AddConversation([]TurnScore{
		{Conversation: "c1", Turn: 0, Status: StatusScored, Values: map[string]float64{key: 1.0}},
		{Conversation: "c1", Turn: 1, Status: StatusScored, Values: map[string]float64{key: 1.0}},
		{Conversation: "c1", Turn: 2, Status: StatusMissingPrediction, Values: map[string]float64{key: 0.0}},
	})

	m := s.Metric(key)
	if m.Micro.Count != 3 {
		t.Errorf("Micro.Count = %d, want 3 (missing prediction must count)", m.Micro.Count)
	}
	if !almostEqual(m.Micro.Value, 2.0/3) {
		t.Errorf("Micro.Value = %v, want 2/3", m.Micro.Value)
	}
	if !almostEqual(m.Macro.Value, 2.0/3) {
		t.Errorf("Macro.Value = %v, want 2/3", m.Macro.Value)
	}
}

func TestConversationMeans(t *testing.T) {
	key := MetricKey("hit", 1)
	scores := []TurnScore{
		{Turn: 0, Status: StatusScored, Values: map[string]float64{key: 1.0}},
		{Turn: 1, Status: StatusEmptyRelevantSet},
		{Turn: 2, Status: StatusMissingPrediction, Values: map[string]float64{key: 0.0}},
	}

	means, count := ConversationMeans([]string{key}, scores)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if !almostEqual(means[key], 0.5) {
		t.Errorf("mean = %v, want 0.5", means[key])
	}
}

func TestConversationMeans_NoComputableTurns(t *testing.T) {
	means, count := ConversationMeans([]string{"hit@1"}, []TurnScore{
		{Turn: 0, Status: StatusEmptyRelevantSet},
	})
	if means != nil || count != 0 {
		t.Errorf("got (%v, %d), want (nil, 0)", means, count)
	}
}
