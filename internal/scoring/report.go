// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package scoring

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cadenza/internal/dataset"
)

// Metadata identifies one evaluation run in the report header.
type Metadata struct {
	RunID       string
	ModelOutput string
	GoldData    string
	GeneratedAt time.Time
}

// NewMetadata creates run metadata with a fresh run id.
func NewMetadata(modelOutput, goldData string) Metadata {
	return Metadata{
		RunID:       uuid.NewString(),
		ModelOutput: modelOutput,
		GoldData:    goldData,
		GeneratedAt: time.Now().UTC(),
	}
}

// placeholder marks a value that is not computable (empty relevant set) in
// the CSV, so coverage gaps stay visible when auditing a report.
const placeholder = ""

// WriteReport serializes a scoring result as CSV:
//
//   - a "#"-prefixed run-identification record
//   - a header row
//   - one row per (conversation id, turn index), with a status column
//   - one conversation_mean row per conversation
//   - trailing corpus rows: macro_average, micro_average, turn_<i>_average
//     per turn-index bucket, and a scored_turns count row
//
// Scores are formatted with four decimal places, matching the published
// reference reports.
func WriteReport(w io.Writer, result *Result, meta Metadata) error {
	cw := csv.NewWriter(w)

	comment := fmt.Sprintf("# run_id=%s model_output=%s gold_data=%s generated_at=%s",
		meta.RunID, meta.ModelOutput, meta.GoldData, meta.GeneratedAt.Format(time.RFC3339))
	if err := cw.Write([]string{comment}); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	keys := result.Summary.Keys
	header := append([]string{"conversation_id", "turn", "status", "num_relevant", "num_negative"}, keys...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	if err := writeTurnRows(cw, result, keys); err != nil {
		return err
	}
	if err := writeCorpusRows(cw, result.Summary, keys); err != nil {
		return err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

// WriteReportFile writes the report to path, creating or truncating it.
func WriteReportFile(path string, result *Result, meta Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	if err := WriteReport(f, result, meta); err != nil {
		f.Close() //nolint:errcheck,gosec // already failing
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report %s: %w", path, err)
	}
	return nil
}

// writeTurnRows emits the per-turn rows, with a conversation_mean row after
// each conversation's last turn. result.Turns is grouped by conversation.
func writeTurnRows(cw *csv.Writer, result *Result, keys []string) error {
	flushConversation := func(id dataset.ConversationID, scores []TurnScore) error {
		for _, score := range scores {
			row := []string{
				string(score.Conversation),
				strconv.Itoa(score.Turn),
				string(score.Status),
				strconv.Itoa(score.NumRelevant),
				strconv.Itoa(score.NumNegative),
			}
			for _, key := range keys {
				if score.Computable() {
					row = append(row, formatScore(score.Values[key]))
				} else {
					row = append(row, placeholder)
				}
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write turn row: %w", err)
			}
		}

		means, count := ConversationMeans(keys, scores)
		row := []string{string(id), "", "conversation_mean", strconv.Itoa(count), ""}
		for _, key := range keys {
			if means == nil {
				row = append(row, placeholder)
			} else {
				row = append(row, formatScore(means[key]))
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write conversation row: %w", err)
		}
		return nil
	}

	var (
		current dataset.ConversationID
		pending []TurnScore
	)
	for _, score := range result.Turns {
		if score.Conversation != current && len(pending) > 0 {
			if err := flushConversation(current, pending); err != nil {
				return err
			}
			pending = pending[:0]
		}
		current = score.Conversation
		pending = append(pending, score)
	}
	if len(pending) > 0 {
		return flushConversation(current, pending)
	}
	return nil
}

// writeCorpusRows emits the trailing corpus-level summary rows.
func writeCorpusRows(cw *csv.Writer, summary *Summary, keys []string) error {
	writeRow := func(label string, value func(*MetricSummary) (float64, bool)) error {
		row := []string{"corpus", "", label, "", ""}
		for _, key := range keys {
			if v, ok := value(summary.Metric(key)); ok {
				row = append(row, formatScore(v))
			} else {
				row = append(row, placeholder)
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write corpus row %s: %w", label, err)
		}
		return nil
	}

	if err := writeRow("macro_average", func(m *MetricSummary) (float64, bool) {
		return m.Macro.Value, m.Macro.Count > 0
	}); err != nil {
		return err
	}
	if err := writeRow("micro_average", func(m *MetricSummary) (float64, bool) {
		return m.Micro.Value, m.Micro.Count > 0
	}); err != nil {
		return err
	}
	for i := 0; i < summary.MaxTurns(); i++ {
		if err := writeRow(fmt.Sprintf("turn_%d_average", i), func(m *MetricSummary) (float64, bool) {
			return m.PerTurn[i].Value, m.PerTurn[i].Count > 0
		}); err != nil {
			return err
		}
	}

	// Count row: how many turns entered the micro average per metric.
	row := []string{"corpus", "", "scored_turns", "", ""}
	for _, key := range keys {
		row = append(row, strconv.Itoa(summary.Metric(key).Micro.Count))
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write corpus row scored_turns: %w", err)
	}
	return nil
}

// formatScore renders a metric value with four decimal places.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
