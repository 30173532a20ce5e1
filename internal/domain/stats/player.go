package stats

import (
	"sort"
	"time"

	"github.com/okian/flipper/internal/domain/model"
	"github.com/okian/flipper/internal/domain/scoring"
)

// PlayerQuery selects the scores that feed player statistics. Empty Players
// or Machines select every player or machine; an empty Venue selects every
// venue.
type PlayerQuery struct {
	Players  []string
	Machines []string
	Seasons  model.SeasonRange
	Venue    string
}

// PlayerTable indexes player statistics by folded player and machine name.
type PlayerTable map[string]map[string]model.PlayerMachineStats

// Get returns the statistics for player on machine, or nil when the player
// has no recorded games there.
func (t PlayerTable) Get(player, machine string) *model.PlayerMachineStats {
	byMachine, ok := t[fold(player)]
	if !ok {
		return nil
	}
	st, ok := byMachine[fold(machine)]
	if !ok {
		return nil
	}
	return &st
}

// Flatten lists every entry ordered by player then machine.
func (t PlayerTable) Flatten() []model.PlayerMachineStats {
	out := make([]model.PlayerMachineStats, 0, len(t))
	for _, byMachine := range t {
		for _, st := range byMachine {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].Machine < out[j].Machine
	})
	return out
}

type playerGame struct {
	score int64
	won   bool
	row   model.ProcessedScore
}

// PlayerMachineStats computes per player, per machine results for the scores
// matching q. A game is a win when the player's points reach the configured
// win threshold.
func (a *Aggregator) PlayerMachineStats(scores []model.ProcessedScore, q PlayerQuery) PlayerTable {
	players := foldSet(q.Players)
	machines := foldSet(q.Machines)
	seasons := q.Seasons.Normalize()
	venue := fold(q.Venue)

	games := make(map[string]map[string][]playerGame)
	for _, s := range scores {
		if !seasons.Contains(s.Season) {
			continue
		}
		if venue != "" && fold(s.Venue) != venue {
			continue
		}
		p, m := fold(s.Player), fold(s.Machine)
		if !selected(players, p) || !selected(machines, m) {
			continue
		}
		if games[p] == nil {
			games[p] = make(map[string][]playerGame)
		}
		games[p][m] = append(games[p][m], playerGame{score: s.Score, won: s.Points >= a.winPoints, row: s})
	}

	table := make(PlayerTable, len(games))
	for p, byMachine := range games {
		table[p] = make(map[string]model.PlayerMachineStats, len(byMachine))
		for m, list := range byMachine {
			player := list[0].row.Player
			if name, ok := players[p]; ok {
				player = name
			}
			machine := list[0].row.Machine
			if name, ok := machines[m]; ok {
				machine = name
			}
			table[p][m] = a.playerStats(player, machine, list)
		}
	}
	return table
}

func selected(set map[string]string, key string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[key]
	return ok
}

func (a *Aggregator) playerStats(player, machine string, games []playerGame) model.PlayerMachineStats {
	sort.SliceStable(games, func(i, j int) bool {
		return newer(games[i].row, games[j].row)
	})

	st := model.PlayerMachineStats{
		Player:          player,
		Machine:         machine,
		GamesPlayed:     len(games),
		ConfidenceScore: scoring.Confidence(len(games)),
	}
	var sum float64
	for i, g := range games {
		sum += float64(g.score)
		if i == 0 || g.score > st.HighScore {
			st.HighScore = g.score
		}
		if g.won {
			st.Wins++
		}
	}
	st.Losses = st.GamesPlayed - st.Wins
	st.WinRate = ratio(float64(st.Wins), float64(st.GamesPlayed))
	st.AvgScore = ratio(sum, float64(st.GamesPlayed))

	recent := games
	if len(recent) > a.recentWindow {
		recent = recent[:a.recentWindow]
	}
	recentWins := 0
	for _, g := range recent {
		if g.won {
			recentWins++
		}
	}
	st.RecentForm = ratio(float64(recentWins), float64(len(recent)))

	if len(games) > 0 {
		st.Streak = model.StreakLoss
		if games[0].won {
			st.Streak = model.StreakWin
		}
		for _, g := range games {
			if g.won != games[0].won {
				break
			}
			st.StreakCount++
		}
		st.LastPlayed = latestTime(games)
	}
	return st
}

// newer orders scores most recent first: by play time when both carry one,
// then by season, week and round, then by match for a stable total order.
func newer(x, y model.ProcessedScore) bool {
	if !x.PlayedAt.IsZero() && !y.PlayedAt.IsZero() && !x.PlayedAt.Equal(y.PlayedAt) {
		return x.PlayedAt.After(y.PlayedAt)
	}
	if x.Season != y.Season {
		return x.Season > y.Season
	}
	if x.Week != y.Week {
		return x.Week > y.Week
	}
	if x.Match != y.Match {
		return x.Match > y.Match
	}
	return x.Round > y.Round
}

func latestTime(games []playerGame) time.Time {
	var latest time.Time
	for _, g := range games {
		if g.row.PlayedAt.After(latest) {
			latest = g.row.PlayedAt
		}
	}
	return latest
}
