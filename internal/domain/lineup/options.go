package lineup

import (
	"github.com/okian/flipper/internal/domain/scoring"
	"github.com/okian/flipper/internal/domain/stats"
)

// Option applies a configuration option to the Optimizer.
type Option func(*Optimizer)

// WithScorer sets the scorer used to rate player-machine statistics.
func WithScorer(s *scoring.Scorer) Option {
	return func(o *Optimizer) {
		if s != nil {
			o.scorer = s
		}
	}
}

// WithAggregator sets the aggregator that builds player and pair statistics.
func WithAggregator(a *stats.Aggregator) Option {
	return func(o *Optimizer) {
		if a != nil {
			o.aggregator = a
		}
	}
}
