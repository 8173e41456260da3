// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package scoring

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cadenza/internal/dataset"
	"github.com/tomtom215/cadenza/internal/logging"
)

// Scoring targets.
const (
	// TargetLiked scores each turn against its own liked_results.
	TargetLiked = "liked"

	// TargetGoalPlaylist scores every turn against the conversation's goal
	// playlist, with the first NumSeedTracks liked tracks of each earlier
	// turn filtered from both predictions and gold (the model was shown
	// those as context, so retrieving them again is neither rewarded nor
	// penalized).
	TargetGoalPlaylist = "goal_playlist"
)

// Status classifies how a turn was scored.
type Status string

const (
	// StatusScored marks a turn scored against a prediction.
	StatusScored Status = "scored"

	// StatusMissingPrediction marks a gold turn with no prediction in the
	// model output. All metrics score zero and count in every average.
	StatusMissingPrediction Status = "missing_prediction"

	// StatusEmptyRelevantSet marks a turn whose relevant set is empty after
	// deduplication. Metrics are not computable; the turn is excluded from
	// averages and carries a placeholder in the report.
	StatusEmptyRelevantSet Status = "empty_relevant_set"
)

// TurnScore is the metrics record for one scored turn.
type TurnScore struct {
	Conversation dataset.ConversationID
	Turn         int
	Status       Status

	// NumRelevant and NumNegative are the sizes of the deduplicated relevant
	// and explicit-negative cluster sets for the turn.
	NumRelevant int
	NumNegative int

	// Values maps "family@k" metric keys to scores. Nil when the turn is not
	// computable.
	Values map[string]float64
}

// Computable reports whether the turn participates in averages.
func (t TurnScore) Computable() bool {
	return t.Status != StatusEmptyRelevantSet
}

// Config controls metric computation.
type Config struct {
	// Metrics lists the metric families to compute.
	Metrics []string

	// KValues are the ranking cutoffs.
	KValues []int

	// Target is TargetLiked or TargetGoalPlaylist.
	Target string

	// NumSeedTracks bounds the per-turn seed tracks in goal-playlist mode.
	NumSeedTracks int

	// MaxTurns bounds the per-turn-index averages in the corpus summary.
	MaxTurns int
}

// DefaultConfig returns the scoring configuration used for published results.
func DefaultConfig() Config {
	return Config{
		Metrics:       StandardMetricNames(),
		KValues:       []int{1, 5, 10, 20, 100},
		Target:        TargetLiked,
		NumSeedTracks: 3,
		MaxTurns:      10,
	}
}

// Result is the outcome of scoring one model-output file: the per-turn
// records in report order plus the corpus summary.
type Result struct {
	Turns   []TurnScore
	Summary *Summary
}

// Engine scores aligned predictions against gold conversations. It holds no
// mutable state between runs and is safe to reuse.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// NewEngine creates a scoring engine. The config must already be validated;
// an unknown metric family surfaces as an error from Score.
func NewEngine(cfg Config) *Engine {
	if cfg.Target == "" {
		cfg.Target = TargetLiked
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 10
	}
	return &Engine{
		cfg: cfg,
		log: logging.With().Str("component", "scorer").Logger(),
	}
}

// Score evaluates every gold turn. Conversations are scored in sorted id
// order and turns in index order, so the result is deterministic for the
// same inputs. Predictions must have been aligned (dataset.Align) first.
func (e *Engine) Score(
	conversations map[dataset.ConversationID]*dataset.Conversation,
	predictions map[string]dataset.Prediction,
) (*Result, error) {
	ids := make([]dataset.ConversationID, 0, len(conversations))
	for id := range conversations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	summary := NewSummary(e.cfg.Metrics, e.cfg.KValues, e.cfg.MaxTurns)
	result := &Result{Summary: summary}

	for _, id := range ids {
		conv := conversations[id]
		scores, err := e.scoreConversation(conv, predictions)
		if err != nil {
			return nil, fmt.Errorf("conversation %s: %w", id, err)
		}
		summary.AddConversation(scores)
		result.Turns = append(result.Turns, scores...)
	}

	e.log.Info().
		Int("conversations", len(ids)).
		Int("turns", len(result.Turns)).
		Msg("Scoring complete")

	return result, nil
}

// scoreConversation scores every turn of one conversation.
func (e *Engine) scoreConversation(
	conv *dataset.Conversation,
	predictions map[string]dataset.Prediction,
) ([]TurnScore, error) {
	// Goal-playlist mode shares one gold list across turns and accumulates
	// seed clusters as the conversation progresses.
	var (
		goalGold []dataset.ClusterID
		seeds    map[dataset.ClusterID]struct{}
	)
	if e.cfg.Target == TargetGoalPlaylist {
		goalGold = ClusterIDs(conv.GoalPlaylist, conv.Tracks)
		seeds = make(map[dataset.ClusterID]struct{})
	}

	scores := make([]TurnScore, 0, len(conv.Turns))
	for i, turn := range conv.Turns {
		var gold []dataset.ClusterID
		switch e.cfg.Target {
		case TargetGoalPlaylist:
			gold = filterClusters(goalGold, seeds)
		default:
			gold = ClusterIDs(turn.LikedResults, conv.Tracks)
		}

		score, err := e.scoreTurn(conv, i, gold, seeds, predictions)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)

		// Seed clusters for later turns come from this turn's liked tracks,
		// seen or not by the model.
		if e.cfg.Target == TargetGoalPlaylist {
			liked := turn.LikedResults
			if len(liked) > e.cfg.NumSeedTracks {
				liked = liked[:e.cfg.NumSeedTracks]
			}
			for _, cluster := range ClusterIDs(liked, conv.Tracks) {
				seeds[cluster] = struct{}{}
			}
		}
	}
	return scores, nil
}

// scoreTurn computes the metrics record for a single turn.
func (e *Engine) scoreTurn(
	conv *dataset.Conversation,
	turnIdx int,
	gold []dataset.ClusterID,
	seeds map[dataset.ClusterID]struct{},
	predictions map[string]dataset.Prediction,
) (TurnScore, error) {
	turn := conv.Turns[turnIdx]
	score := TurnScore{
		Conversation: conv.ID,
		Turn:         turnIdx,
		NumRelevant:  len(gold),
		NumNegative:  len(ClusterIDs(turn.DislikedResults, conv.Tracks)),
	}

	if len(gold) == 0 {
		score.Status = StatusEmptyRelevantSet
		e.log.Warn().
			Str("conversation", string(conv.ID)).
			Int("turn", turnIdx).
			Msg("Empty relevant set after deduplication; turn excluded from averages")
		return score, nil
	}

	docid := dataset.Docid{Conversation: conv.ID, Turn: turnIdx}
	pred, ok := predictions[docid.String()]
	if !ok {
		score.Status = StatusMissingPrediction
		score.Values = e.zeroValues()
		e.log.Warn().
			Str("docid", docid.String()).
			Msg("Missing prediction; turn scored as zero")
		return score, nil
	}

	preds := ClusterIDs(pred.TrackIDs(), conv.Tracks)
	if e.cfg.Target == TargetGoalPlaylist {
		preds = filterClusters(preds, seeds)
	}

	values, err := ComputeMetrics(preds, gold, e.cfg.Metrics, e.cfg.KValues)
	if err != nil {
		return TurnScore{}, err
	}
	score.Status = StatusScored
	score.Values = values
	return score, nil
}

// zeroValues returns an all-zero metrics map for missing predictions.
func (e *Engine) zeroValues() map[string]float64 {
	values := make(map[string]float64, len(e.cfg.Metrics)*len(e.cfg.KValues))
	for _, name := range e.cfg.Metrics {
		for _, k := range e.cfg.KValues {
			values[MetricKey(name, k)] = 0
		}
	}
	return values
}

// filterClusters returns the clusters not present in exclude, preserving
// order.
func filterClusters(clusters []dataset.ClusterID, exclude map[dataset.ClusterID]struct{}) []dataset.ClusterID {
	if len(exclude) == 0 {
		return clusters
	}
	filtered := make([]dataset.ClusterID, 0, len(clusters))
	for _, cluster := range clusters {
		if _, ok := exclude[cluster]; ok {
			continue
		}
		filtered = append(filtered, cluster)
	}
	return filtered
}
