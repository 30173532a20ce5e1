// Package app provides the strategy service behind the HTTP API, the MCP
// server and the CLI. It fetches game records and hands them to the pure
// statistics and lineup packages.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/flipper/internal/adapters/cache"
	"github.com/okian/flipper/internal/adapters/source"
	"github.com/okian/flipper/internal/domain/lineup"
	"github.com/okian/flipper/internal/domain/model"
	"github.com/okian/flipper/internal/domain/scoring"
	"github.com/okian/flipper/internal/domain/stats"
	"github.com/okian/flipper/pkg/logger"
	"github.com/okian/flipper/pkg/metrics"
)

// Lookups resolves team names, machine aliases and venue overrides.
type Lookups interface {
	stats.Names
	stats.Overrides
}

// Service implements the strategy operations.
type Service struct {
	source  source.Source
	lookups Lookups
	cache   cache.Cache

	aggregator *stats.Aggregator
	optimizer  *lineup.Optimizer

	defaultSeasons model.SeasonRange
	winPoints      float64
	recentWindow   int
	maxScoreLimits int
	scorerOptions  []scoring.Option

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the game record source.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithLookups sets the name and machine lookup tables.
func WithLookups(l Lookups) Option {
	return func(s *Service) {
		if l != nil {
			s.lookups = l
		}
	}
}

// WithCache sets the read-through cache for optimizations.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithDefaultSeasons sets the range used when a request names no seasons.
func WithDefaultSeasons(start, end int) Option {
	return func(s *Service) {
		if start <= end {
			s.defaultSeasons = model.SeasonRange{Min: start, Max: end}
		}
	}
}

// WithWinPoints sets the points a player needs to win a game.
func WithWinPoints(points float64) Option {
	return func(s *Service) {
		if points > 0 {
			s.winPoints = points
		}
	}
}

// WithRecentWindow sets how many recent games count as form.
func WithRecentWindow(games int) Option {
	return func(s *Service) {
		if games > 0 {
			s.recentWindow = games
		}
	}
}

// WithMaxScoreLimits caps the score limit entries accepted per request.
// Zero disables the cap.
func WithMaxScoreLimits(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxScoreLimits = n
		}
	}
}

// WithScoring passes options to the lineup scorer.
func WithScoring(opts ...scoring.Option) Option {
	return func(s *Service) {
		s.scorerOptions = append(s.scorerOptions, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Without a source it serves an empty league.
func New(opts ...Option) *Service {
	s := &Service{
		source:         source.NewMemory(nil, nil),
		cache:          cache.Noop{},
		defaultSeasons: model.SeasonRange{Min: 20, Max: 21},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	aggOpts := []stats.Option{
		stats.WithWinPoints(s.winPoints),
		stats.WithRecentWindow(s.recentWindow),
	}
	if s.lookups != nil {
		aggOpts = append(aggOpts, stats.WithOverrides(s.lookups))
	}
	s.aggregator = stats.New(aggOpts...)
	s.optimizer = lineup.New(
		lineup.WithAggregator(s.aggregator),
		lineup.WithScorer(scoring.New(s.scorerOptions...)),
	)
	return s
}

func (s *Service) seasons(r model.SeasonRange) model.SeasonRange {
	if r == (model.SeasonRange{}) {
		return s.defaultSeasons
	}
	return r.Normalize()
}

func (s *Service) canonical(machines []string) []string {
	if s.lookups == nil {
		return machines
	}
	out := make([]string, len(machines))
	for i, m := range machines {
		out[i] = s.lookups.CanonicalMachine(m)
	}
	return out
}

// scores fetches records for f and flattens them into per-player rows.
func (s *Service) scores(ctx context.Context, f source.Filter) ([]model.ProcessedScore, error) {
	recs, err := s.source.FetchGames(ctx, f)
	if err != nil {
		metrics.RecordErrorByComponent("source", "fetch")
		return nil, fmt.Errorf("%w: %w", ErrFetchRecords, err)
	}
	var names stats.Names
	if s.lookups != nil {
		names = s.lookups
	}
	return stats.Explode(recs, names), nil
}

// MachineStatsRequest selects a team's machine statistics at a venue.
type MachineStatsRequest struct {
	Team    string
	Venue   string
	Seasons model.SeasonRange
	// ReferenceTeam adds a comparison block when set.
	ReferenceTeam string
	ScoreLimits   map[string]int64
	// Nil keeps the defaults: team rows venue specific, reference rows not.
	TeamVenueSpecific      *bool
	ReferenceVenueSpecific *bool
}

// MachineStatsResponse is the per-machine table and how it was derived.
type MachineStatsResponse struct {
	Team        string               `json:"team"`
	Venue       string               `json:"venue"`
	Seasons     model.SeasonRange    `json:"seasons"`
	Stats       []model.MachineStats `json:"stats"`
	Diagnostics stats.Diagnostics    `json:"diagnostics"`
}

// MachineStats returns per-machine statistics for a team at a venue.
func (s *Service) MachineStats(ctx context.Context, req MachineStatsRequest) (MachineStatsResponse, error) {
	if strings.TrimSpace(req.Team) == "" || strings.TrimSpace(req.Venue) == "" {
		return MachineStatsResponse{}, fmt.Errorf("%w: team and venue are required", ErrInvalidRequest)
	}
	if s.maxScoreLimits > 0 && len(req.ScoreLimits) > s.maxScoreLimits {
		return MachineStatsResponse{}, fmt.Errorf("%w: %d score limits exceed the maximum of %d",
			ErrInvalidRequest, len(req.ScoreLimits), s.maxScoreLimits)
	}
	seasons := s.seasons(req.Seasons)

	opts := stats.DefaultMachineOptions()
	opts.ReferenceTeam = req.ReferenceTeam
	opts.ScoreLimits = make(map[string]int64, len(req.ScoreLimits))
	for m, limit := range req.ScoreLimits {
		opts.ScoreLimits[s.canonicalOne(m)] = limit
	}
	if req.TeamVenueSpecific != nil {
		opts.TeamVenueSpecific = *req.TeamVenueSpecific
	}
	if req.ReferenceVenueSpecific != nil {
		opts.ReferenceVenueSpecific = *req.ReferenceVenueSpecific
	}

	scores, err := s.scores(ctx, source.Filter{Seasons: seasons})
	if err != nil {
		return MachineStatsResponse{}, err
	}

	start := time.Now()
	rows := s.aggregator.MachineStats(scores, req.Team, req.Venue, seasons, opts)
	metrics.RecordAggregation("machine_stats", time.Since(start).Seconds())
	metrics.UpdateMachineStatsRows(len(rows))

	s.logger.Debug(ctx, "machine stats computed",
		logger.String("team", req.Team),
		logger.String("venue", req.Venue),
		logger.Int("scores", len(scores)),
		logger.Int("machines", len(rows)))

	return MachineStatsResponse{
		Team:        req.Team,
		Venue:       req.Venue,
		Seasons:     seasons,
		Stats:       rows,
		Diagnostics: stats.Diagnose(scores, req.Team),
	}, nil
}

func (s *Service) canonicalOne(machine string) string {
	if s.lookups == nil {
		return machine
	}
	return s.lookups.CanonicalMachine(machine)
}

// OptimizeRequest asks for a lineup.
type OptimizeRequest struct {
	Format   model.Format
	Players  []string
	Machines []string
	Seasons  model.SeasonRange
	Venue    string
	// SkipCache forces a fresh computation and leaves the cache untouched.
	SkipCache bool
}

// Optimize recommends a lineup. Results are cached by format, seasons,
// players and machines.
func (s *Service) Optimize(ctx context.Context, req OptimizeRequest) (model.OptimizationResult, error) {
	seasons := s.seasons(req.Seasons)
	machines := s.canonical(req.Machines)
	key := cache.OptimizeKey(req.Format, seasons, req.Players, machines)
	if req.Venue != "" {
		key = cache.Key("optimize", key, strings.ToLower(strings.TrimSpace(req.Venue)))
	}

	c := s.cache
	if req.SkipCache {
		c = nil
	}
	return cache.GetOrCompute(ctx, c, key, func() (model.OptimizationResult, error) {
		scores, err := s.scores(ctx, source.Filter{Seasons: seasons, Venue: req.Venue})
		if err != nil {
			metrics.RecordOptimization(string(req.Format), "error")
			return model.OptimizationResult{}, err
		}

		start := time.Now()
		res, err := s.optimizer.Optimize(scores, lineup.Request{
			Format:   req.Format,
			Players:  req.Players,
			Machines: machines,
			Seasons:  seasons,
			Venue:    req.Venue,
		})
		metrics.RecordOptimizationDuration(string(req.Format), time.Since(start).Seconds())
		if err != nil {
			if errors.Is(err, lineup.ErrInvalidInput) {
				metrics.RecordOptimization(string(req.Format), "invalid")
				return model.OptimizationResult{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
			}
			metrics.RecordOptimization(string(req.Format), "error")
			return model.OptimizationResult{}, err
		}
		metrics.RecordOptimization(string(req.Format), "ok")
		if len(res.Alternatives) > 0 {
			metrics.RecordLineupGreedyGap(res.TotalScore - total(res.Alternatives[0]))
		}

		s.logger.Info(ctx, "lineup optimized",
			logger.String("format", string(req.Format)),
			logger.Int("players", len(req.Players)),
			logger.Int("machines", len(machines)),
			logger.Float64("totalScore", res.TotalScore))
		return res, nil
	})
}

func total(assignments []model.Assignment) float64 {
	var sum float64
	for _, a := range assignments {
		sum += a.ExpectedScore
	}
	return sum
}

// MatrixRequest selects players and machines for the statistics matrix.
// Empty lists select everyone and everything.
type MatrixRequest struct {
	Players  []string
	Machines []string
	Seasons  model.SeasonRange
	Venue    string
}

// MatrixResponse holds player-machine and teammate pair statistics.
type MatrixResponse struct {
	Seasons model.SeasonRange          `json:"seasons"`
	Venue   string                     `json:"venue,omitempty"`
	Players []model.PlayerMachineStats `json:"players"`
	Pairs   []model.PairStats          `json:"pairs"`
}

// Matrix returns every selected player's statistics on every selected
// machine plus the pairs that played together.
func (s *Service) Matrix(ctx context.Context, req MatrixRequest) (MatrixResponse, error) {
	seasons := s.seasons(req.Seasons)
	machines := s.canonical(req.Machines)

	scores, err := s.scores(ctx, source.Filter{Seasons: seasons, Venue: req.Venue})
	if err != nil {
		return MatrixResponse{}, err
	}

	q := stats.PlayerQuery{Players: req.Players, Machines: machines, Seasons: seasons, Venue: req.Venue}
	start := time.Now()
	players := s.aggregator.PlayerMachineStats(scores, q).Flatten()
	pairs := s.aggregator.PairStats(scores, q).Flatten()
	metrics.RecordAggregation("matrix", time.Since(start).Seconds())

	return MatrixResponse{Seasons: seasons, Venue: req.Venue, Players: players, Pairs: pairs}, nil
}

// Stats returns service settings for monitoring.
func (s *Service) Stats() map[string]interface{} {
	out := map[string]interface{}{
		"defaultSeasonStart": s.defaultSeasons.Min,
		"defaultSeasonEnd":   s.defaultSeasons.Max,
		"lookups":            s.lookups != nil,
	}
	if st, ok := s.cache.(*cache.Store); ok {
		out["cacheEntries"] = st.Len()
	} else {
		out["cacheEntries"] = 0
	}
	return out
}
