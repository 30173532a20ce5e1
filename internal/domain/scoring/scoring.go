// Package scoring turns player-machine statistics into comparable scores.
package scoring

import (
	"math"

	"github.com/okian/flipper/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultWinRateWeight    = 0.4
	defaultRecentFormWeight = 0.3
	defaultAvgScoreWeight   = 0.2
	defaultConfidenceWeight = 0.1
	defaultAvgScoreCeiling  = 1_000_000_000

	streakThreshold      = 3
	winStreakStep        = 0.05
	winStreakMaxBonus    = 0.20
	lossStreakStep       = 0.03
	lossStreakMaxPenalty = 0.15

	maxConfidence      = 10
	logisticSteepness  = 10
	logisticMidpoint   = 0.5
	mismatchPenalty    = 0.1
	lowConfidenceLimit = 5
)

// Weights controls the contribution of each statistic to a score.
type Weights struct {
	WinRate    float64
	RecentForm float64
	AvgScore   float64
	Confidence float64
}

// DefaultWeights returns the standard 0.4/0.3/0.2/0.1 weighting.
func DefaultWeights() Weights {
	return Weights{
		WinRate:    defaultWinRateWeight,
		RecentForm: defaultRecentFormWeight,
		AvgScore:   defaultAvgScoreWeight,
		Confidence: defaultConfidenceWeight,
	}
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights overrides the statistic weights. Negative weights are ignored.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.WinRate < 0 || w.RecentForm < 0 || w.AvgScore < 0 || w.Confidence < 0 {
			return
		}
		s.weights = w
	}
}

// WithAvgScoreCeiling sets the average score treated as a perfect 1.0.
func WithAvgScoreCeiling(ceiling float64) Option {
	return func(s *Scorer) {
		if ceiling > 0 {
			s.avgScoreCeiling = ceiling
		}
	}
}

// Scorer computes performance scores. It holds no mutable state and is safe
// for concurrent use.
type Scorer struct {
	weights         Weights
	avgScoreCeiling float64
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		weights:         DefaultWeights(),
		avgScoreCeiling: defaultAvgScoreCeiling,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the weighted performance score for stats. A nil or empty
// record scores 0. With default weights the result lies in [0, 1.2].
func (s *Scorer) Score(stats *model.PlayerMachineStats) float64 {
	if stats == nil || stats.GamesPlayed == 0 {
		return 0
	}

	normalizedAvg := math.Min(stats.AvgScore/s.avgScoreCeiling, 1)
	if normalizedAvg < 0 {
		normalizedAvg = 0
	}
	normalizedConfidence := float64(stats.ConfidenceScore) / maxConfidence

	score := stats.WinRate*s.weights.WinRate +
		stats.RecentForm*s.weights.RecentForm +
		normalizedAvg*s.weights.AvgScore +
		normalizedConfidence*s.weights.Confidence

	switch {
	case stats.Streak == model.StreakWin && stats.StreakCount >= streakThreshold:
		return score * (1 + math.Min(float64(stats.StreakCount)*winStreakStep, winStreakMaxBonus))
	case stats.Streak == model.StreakLoss && stats.StreakCount >= streakThreshold:
		return score * (1 - math.Min(float64(stats.StreakCount)*lossStreakStep, lossStreakMaxPenalty))
	}
	return score
}

// PairSynergy estimates how much better two players do together on a machine
// than their individual scores suggest. When pairWinRate is known the synergy
// is the observed rate minus the mean individual score; otherwise pairs with
// mismatched skill are penalized and unproven pairs get no bonus.
func (s *Scorer) PairSynergy(p1, p2 *model.PlayerMachineStats, pairWinRate *float64) float64 {
	score1 := s.Score(p1)
	score2 := s.Score(p2)
	if pairWinRate != nil {
		return *pairWinRate - (score1+score2)/2
	}
	return -mismatchPenalty * math.Abs(score1-score2)
}

// Confidence maps a number of games to a 1-10 confidence step.
func Confidence(gamesPlayed int) int {
	switch {
	case gamesPlayed <= 0:
		return 1
	case gamesPlayed < 3:
		return 3
	case gamesPlayed < 5:
		return 5
	case gamesPlayed < 10:
		return 7
	case gamesPlayed < 20:
		return 9
	default:
		return maxConfidence
	}
}

// LowConfidence reports whether a confidence step is too thin to trust.
func LowConfidence(confidence int) bool {
	return confidence < lowConfidenceLimit
}

// WinProbability converts a score to a probability with a logistic curve
// centered on 0.5.
func WinProbability(score float64) float64 {
	return 1 / (1 + math.Exp(-logisticSteepness*(score-logisticMidpoint)))
}
