// Package lineup recommends which players play which machines.
package lineup

import (
	"fmt"
	"strings"

	"github.com/okian/flipper/internal/domain/model"
	"github.com/okian/flipper/internal/domain/scoring"
	"github.com/okian/flipper/internal/domain/stats"
)

// Request describes one lineup to optimize.
type Request struct {
	Format   model.Format
	Players  []string
	Machines []string
	Seasons  model.SeasonRange
	// Venue optionally limits player history to one venue.
	Venue string
}

// Optimizer builds lineups from processed scores. It is pure and safe for
// concurrent use.
type Optimizer struct {
	scorer     *scoring.Scorer
	aggregator *stats.Aggregator
}

// New creates an Optimizer with configuration options.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		scorer:     scoring.New(),
		aggregator: stats.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize recommends a lineup for req using the history in scores.
func (o *Optimizer) Optimize(scores []model.ProcessedScore, req Request) (model.OptimizationResult, error) {
	if err := validate(req); err != nil {
		return model.OptimizationResult{}, err
	}
	query := stats.PlayerQuery{
		Players:  req.Players,
		Machines: req.Machines,
		Seasons:  req.Seasons,
		Venue:    req.Venue,
	}
	players := o.aggregator.PlayerMachineStats(scores, query)

	if req.Format == model.FormatDoubles {
		pairs := o.aggregator.PairStats(scores, query)
		return o.doubles(req, players, pairs), nil
	}
	return o.singles(req, players)
}

func validate(req Request) error {
	if len(req.Machines) == 0 {
		return fmt.Errorf("at least one machine is required: %w", ErrInvalidInput)
	}
	if err := distinct("player", req.Players); err != nil {
		return err
	}
	if err := distinct("machine", req.Machines); err != nil {
		return err
	}

	switch req.Format {
	case model.FormatSingles:
		if len(req.Players) != len(req.Machines) {
			return fmt.Errorf("singles needs one player per machine, got %d players for %d machines: %w",
				len(req.Players), len(req.Machines), ErrInvalidInput)
		}
	case model.FormatDoubles:
		if len(req.Players) != 2*len(req.Machines) {
			return fmt.Errorf("doubles needs two players per machine, got %d players for %d machines: %w",
				len(req.Players), len(req.Machines), ErrInvalidInput)
		}
	default:
		return fmt.Errorf("unknown format %q: %w", req.Format, ErrInvalidInput)
	}
	return nil
}

func distinct(kind string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		k := strings.ToLower(strings.TrimSpace(n))
		if k == "" {
			return fmt.Errorf("empty %s name: %w", kind, ErrInvalidInput)
		}
		if _, ok := seen[k]; ok {
			return fmt.Errorf("duplicate %s %q: %w", kind, n, ErrInvalidInput)
		}
		seen[k] = struct{}{}
	}
	return nil
}
