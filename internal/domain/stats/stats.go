// Package stats aggregates processed game scores into per-machine and
// per-player statistics.
package stats

import "strings"

// Default aggregation constants.
const (
	defaultWinPoints    = 1.5
	defaultRecentWindow = 5

	// pointsPerSlot is the most points a single player slot can earn.
	pointsPerSlot = 10
)

// Names resolves external naming tables used while exploding records.
type Names interface {
	TeamName(key string) string
	CanonicalMachine(name string) string
}

// Overrides adjusts the machine list of a venue with curated include and
// exclude lists.
type Overrides interface {
	Apply(venue string, machines []string) []string
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithWinPoints sets the points a player must reach for a game to count as
// a win.
func WithWinPoints(points float64) Option {
	return func(a *Aggregator) {
		if points > 0 {
			a.winPoints = points
		}
	}
}

// WithRecentWindow sets how many of the most recent games form RecentForm.
func WithRecentWindow(games int) Option {
	return func(a *Aggregator) {
		if games > 0 {
			a.recentWindow = games
		}
	}
}

// WithOverrides sets the venue machine list overrides.
func WithOverrides(o Overrides) Option {
	return func(a *Aggregator) {
		a.overrides = o
	}
}

// Aggregator computes statistics over already fetched scores. It performs no
// I/O and holds no mutable state.
type Aggregator struct {
	winPoints    float64
	recentWindow int
	overrides    Overrides
}

// New creates an Aggregator with configuration options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		winPoints:    defaultWinPoints,
		recentWindow: defaultRecentWindow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// fold normalizes names for case and whitespace insensitive matching.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func foldSet(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		k := fold(n)
		if k == "" {
			continue
		}
		if _, ok := out[k]; !ok {
			out[k] = n
		}
	}
	return out
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
