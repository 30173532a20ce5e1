package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/flipper/internal/app"
	"github.com/okian/flipper/internal/config"
	"github.com/okian/flipper/internal/domain/model"
	"github.com/okian/flipper/internal/leaguegen"
	"github.com/okian/flipper/pkg/logger"
)

type globalFlags struct {
	records []string
	lookups string
	seasons string
	venue   string
	verbose bool
}

// NewRootCmd returns the flipperctl command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "flipperctl",
		Short:         "Pinball league machine stats and lineup recommendations",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringSliceVar(&g.records, "records", nil, "record files (overrides FLIPPER_RECORDS_PATH)")
	root.PersistentFlags().StringVar(&g.lookups, "lookups", "", "lookup tables file (overrides FLIPPER_LOOKUPS_PATH)")
	root.PersistentFlags().StringVar(&g.seasons, "seasons", "", "season or range, e.g. 21 or 20-21")
	root.PersistentFlags().StringVar(&g.venue, "venue", "", "venue key")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(
		NewMachineStatsCmd(g),
		NewOptimizeCmd(g),
		NewMatrixCmd(g),
		NewGenerateCmd(),
	)
	return root
}

// NewMachineStatsCmd prints per-machine statistics for a team at a venue.
func NewMachineStatsCmd(g *globalFlags) *cobra.Command {
	var (
		reference        string
		anyVenue         bool
		referenceAtVenue bool
	)
	cmd := &cobra.Command{
		Use:     "machine-stats [team]",
		Short:   "Per-machine averages and POPS for a team at a venue",
		Example: "flipperctl machine-stats TWC --venue AAB --seasons 20-21 --reference SKP",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, seasons, err := g.runtime(cmd)
			if err != nil {
				return err
			}
			teamVenue := !anyVenue
			req := app.MachineStatsRequest{
				Team:                   args[0],
				Venue:                  g.venue,
				Seasons:                seasons,
				ReferenceTeam:          reference,
				TeamVenueSpecific:      &teamVenue,
				ReferenceVenueSpecific: &referenceAtVenue,
			}
			resp, err := rt.Service.MachineStats(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	cmd.Flags().StringVar(&reference, "reference", "", "team to compare against")
	cmd.Flags().BoolVar(&anyVenue, "any-venue", false, "count the team's games at every venue")
	cmd.Flags().BoolVar(&referenceAtVenue, "reference-at-venue", false, "only count the reference team's games at the venue")
	return cmd
}

// NewOptimizeCmd prints the recommended lineup.
func NewOptimizeCmd(g *globalFlags) *cobra.Command {
	var (
		format   string
		players  []string
		machines []string
	)
	cmd := &cobra.Command{
		Use:     "optimize",
		Short:   "Recommend which players play which machines",
		Example: "flipperctl optimize --format 4x2 --players a,b,c,d,e,f,g,h --machines mm,tz,afm,ij",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, seasons, err := g.runtime(cmd)
			if err != nil {
				return err
			}
			res, err := rt.Service.Optimize(cmd.Context(), app.OptimizeRequest{
				Format:   model.Format(format),
				Players:  players,
				Machines: machines,
				Seasons:  seasons,
				Venue:    g.venue,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(model.FormatSingles), "7x7 or 4x2")
	cmd.Flags().StringSliceVar(&players, "players", nil, "player names")
	cmd.Flags().StringSliceVar(&machines, "machines", nil, "machine names")
	return cmd
}

// NewMatrixCmd prints the player by machine experience matrix.
func NewMatrixCmd(g *globalFlags) *cobra.Command {
	var players, machines []string
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Win rate, form and confidence for players on machines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, seasons, err := g.runtime(cmd)
			if err != nil {
				return err
			}
			resp, err := rt.Service.Matrix(cmd.Context(), app.MatrixRequest{
				Players:  players,
				Machines: machines,
				Seasons:  seasons,
				Venue:    g.venue,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	cmd.Flags().StringSliceVar(&players, "players", nil, "player names (default everyone)")
	cmd.Flags().StringSliceVar(&machines, "machines", nil, "machine names (default every machine)")
	return cmd
}

// NewGenerateCmd writes a synthetic league to a file or stdout.
func NewGenerateCmd() *cobra.Command {
	cfg := leaguegen.DefaultConfig()
	var (
		seasons string
		format  string
		output  string
	)
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Write synthetic league records",
		Example: "flipperctl generate --seasons 19-21 --teams TWC,SKP,PKT,CRA --output league.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seasons != "" {
				r, err := parseSeasons(seasons)
				if err != nil {
					return err
				}
				cfg.SeasonStart, cfg.SeasonEnd = r.Min, r.Max
			}
			recs, err := leaguegen.Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output != "" {
				fh, err := os.Create(output)
				if err != nil {
					return err
				}
				defer fh.Close()
				w = fh
			}
			if err := leaguegen.Write(w, format, recs); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d games to %s\n", len(recs), output)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&seasons, "seasons", "", "season or range to simulate (default 20-21)")
	cmd.Flags().IntVar(&cfg.Weeks, "weeks", cfg.Weeks, "weeks per season")
	cmd.Flags().StringSliceVar(&cfg.Teams, "teams", cfg.Teams, "team keys")
	cmd.Flags().IntVar(&cfg.PlayersPerTeam, "players-per-team", cfg.PlayersPerTeam, "roster size")
	cmd.Flags().StringSliceVar(&cfg.Machines, "machines", cfg.Machines, "machine pool")
	cmd.Flags().IntVar(&cfg.MachinesPerVenue, "machines-per-venue", cfg.MachinesPerVenue, "machines stocked at each venue")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	cmd.Flags().StringVar(&format, "format", "yaml", "yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// runtime loads configuration, applies flag overrides and builds the service.
func (g *globalFlags) runtime(cmd *cobra.Command) (*app.Runtime, model.SeasonRange, error) {
	seasons, err := parseSeasons(g.seasons)
	if err != nil {
		return nil, seasons, err
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, seasons, err
	}
	if len(g.records) > 0 {
		cfg.RecordsPath = strings.Join(g.records, ",")
	}
	if g.lookups != "" {
		cfg.LookupsPath = g.lookups
	}
	// Each run is a single query.
	cfg.CacheEnabled = false

	if err := logger.InitFormat(cmd.ErrOrStderr(), "text"); err != nil {
		return nil, seasons, err
	}
	level := "warn"
	if g.verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	rt, err := app.Build(cfg, logger.Get())
	if err != nil {
		return nil, seasons, err
	}
	return rt, seasons, nil
}

// parseSeasons accepts "", "21" or "20-21".
func parseSeasons(v string) (model.SeasonRange, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return model.SeasonRange{}, nil
	}
	lo, hi, found := strings.Cut(v, "-")
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return model.SeasonRange{}, fmt.Errorf("invalid seasons %q: %w", v, err)
	}
	end := start
	if found {
		if end, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
			return model.SeasonRange{}, fmt.Errorf("invalid seasons %q: %w", v, err)
		}
	}
	return model.SeasonRange{Min: start, Max: end}.Normalize(), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
