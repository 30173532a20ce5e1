package leaguegen

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/okian/flipper/internal/domain/model"
)

// Match shape: rounds 1 and 4 are doubles, rounds 2 and 3 singles.
const (
	roundsPerMatch = 4
	doublesGames   = 4
	doublesPlayers = 8 // per team
	singlesGames   = 7
)

// Skill tiers players are drawn from, on a 0.1 to 10 scale.
var tiers = []struct{ min, spread float64 }{
	{3.0, 4.0}, // average
	{7.0, 2.0}, // strong
	{0.1, 2.9}, // weak
	{9.0, 1.0}, // elite
	{6.0, 2.0}, // solid
	{2.0, 2.0}, // developing
}

var (
	doublesPoints = []float64{2.5, 2, 0.5, 0}
	singlesPoints = []float64{3, 0}
	seasonOpener  = time.Date(2024, time.January, 8, 19, 0, 0, 0, time.UTC)
)

type player struct {
	name     string
	skill    float64
	affinity map[string]float64
}

type team struct {
	key     string
	venue   string
	roster  []player
	stocked []string
}

type generator struct {
	cfg     Config
	rng     *rand.Rand
	teams   []*team
	baseFor map[string]float64
}

// Generate simulates every season in cfg. The same Config always yields the
// same records.
func Generate(ctx context.Context, cfg Config) ([]model.GameRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &generator{
		cfg:     cfg,
		rng:     rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		baseFor: make(map[string]float64, len(cfg.Machines)),
	}
	g.setup()

	var out []model.GameRecord
	for season := cfg.SeasonStart; season <= cfg.SeasonEnd; season++ {
		for week := 1; week <= cfg.Weeks; week++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for _, pair := range g.pairings(season, week) {
				out = append(out, g.match(season, week, pair[0], pair[1])...)
			}
		}
	}
	return out, nil
}

func (g *generator) setup() {
	for _, m := range g.cfg.Machines {
		// Typical winning scores span 10M to 200M.
		g.baseFor[m] = 1e7 * math.Pow(20, g.rng.Float64())
	}
	for _, key := range g.cfg.Teams {
		t := &team{key: key, venue: venueKey(key)}
		for i := 0; i < g.cfg.PlayersPerTeam; i++ {
			tier := tiers[g.rng.IntN(len(tiers))]
			p := player{
				name:     fmt.Sprintf("%s Player %d", key, i+1),
				skill:    tier.min + g.rng.Float64()*tier.spread,
				affinity: make(map[string]float64, len(g.cfg.Machines)),
			}
			for _, m := range g.cfg.Machines {
				p.affinity[m] = 0.7 + 0.6*g.rng.Float64()
			}
			t.roster = append(t.roster, p)
		}
		stock := append([]string(nil), g.cfg.Machines...)
		g.rng.Shuffle(len(stock), func(i, j int) { stock[i], stock[j] = stock[j], stock[i] })
		t.stocked = stock[:g.cfg.MachinesPerVenue]
		g.teams = append(g.teams, t)
	}
}

// pairings shuffles the teams and matches neighbours. An odd team out sits
// the week. Home advantage alternates by week.
func (g *generator) pairings(season, week int) [][2]*team {
	order := append([]*team(nil), g.teams...)
	g.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	pairs := make([][2]*team, 0, len(order)/2)
	for i := 0; i+1 < len(order); i += 2 {
		home, away := order[i], order[i+1]
		if (season+week)%2 == 0 {
			home, away = away, home
		}
		pairs = append(pairs, [2]*team{home, away})
	}
	return pairs
}

func (g *generator) match(season, week int, home, away *team) []model.GameRecord {
	id := fmt.Sprintf("mnp-%d-%d-%s-%s", season, week, away.key, home.key)
	playedAt := seasonOpener.AddDate(season-g.cfg.SeasonStart, 0, 7*(week-1))

	var out []model.GameRecord
	for round := 1; round <= roundsPerMatch; round++ {
		doubles := round == 1 || round == roundsPerMatch
		games := singlesGames
		perSide := 1
		if doubles {
			games, perSide = doublesGames, 2
		}
		machines := pickN(g.rng, home.stocked, games)
		homeUp := pickN(g.rng, home.roster, games*perSide)
		awayUp := pickN(g.rng, away.roster, games*perSide)

		for i, machine := range machines {
			rec := model.GameRecord{
				Season:   season,
				Week:     week,
				Match:    id,
				Round:    round,
				Venue:    home.venue,
				Machine:  machine,
				HomeTeam: home.key,
				AwayTeam: away.key,
				PlayedAt: playedAt,
			}
			var seated []int
			for k := 0; k < perSide; k++ {
				// Away players take the odd slots, home players the even ones.
				a, h := 2*k, 2*k+1
				rec.Slots[a] = g.play(awayUp[i*perSide+k], away.key, machine)
				rec.Slots[h] = g.play(homeUp[i*perSide+k], home.key, machine)
				seated = append(seated, a, h)
			}
			award(&rec, seated, doubles)
			out = append(out, rec)
		}
	}
	return out
}

func (g *generator) play(p player, teamKey, machine string) model.PlayerSlot {
	noise := math.Exp(g.rng.NormFloat64() * 0.6)
	score := int64(g.baseFor[machine] * (p.skill / 5) * p.affinity[machine] * noise)
	score -= score % 10
	return model.PlayerSlot{Player: p.name, Team: teamKey, Score: &score}
}

// award hands out points by score rank among the seated slots.
func award(rec *model.GameRecord, seated []int, doubles bool) {
	sort.SliceStable(seated, func(i, j int) bool {
		return *rec.Slots[seated[i]].Score > *rec.Slots[seated[j]].Score
	})
	table := singlesPoints
	if doubles {
		table = doublesPoints
	}
	for rank, slot := range seated {
		pts := table[rank]
		rec.Slots[slot].Points = &pts
	}
}

// pickN draws n distinct elements of from.
func pickN[T any](rng *rand.Rand, from []T, n int) []T {
	idx := rng.Perm(len(from))[:n]
	out := make([]T, n)
	for i, j := range idx {
		out[i] = from[j]
	}
	return out
}

func venueKey(teamKey string) string {
	return teamKey + "V"
}
