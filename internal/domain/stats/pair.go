package stats

import (
	"sort"

	"github.com/okian/flipper/internal/domain/model"
)

// PairTable indexes pair statistics by machine and an unordered player pair.
type PairTable map[string]model.PairStats

func pairKey(p1, p2, machine string) string {
	a, b := fold(p1), fold(p2)
	if b < a {
		a, b = b, a
	}
	return a + "|" + b + "|" + fold(machine)
}

// Get returns the history of p1 and p2 playing together on machine, in
// either order, or nil when they never did.
func (t PairTable) Get(p1, p2, machine string) *model.PairStats {
	st, ok := t[pairKey(p1, p2, machine)]
	if !ok {
		return nil
	}
	return &st
}

// WinRate returns the pair's observed win rate, or nil without history.
func (t PairTable) WinRate(p1, p2, machine string) *float64 {
	st := t.Get(p1, p2, machine)
	if st == nil || st.GamesTogether == 0 {
		return nil
	}
	rate := st.WinRate
	return &rate
}

// Flatten lists every pair ordered by machine then players.
func (t PairTable) Flatten() []model.PairStats {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]model.PairStats, 0, len(keys))
	for _, k := range keys {
		out = append(out, t[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Machine < out[j].Machine
	})
	return out
}

type gameSide struct {
	players []string
	points  float64
}

// PairStats finds every game where two selected players played on the same
// team and records whether that team outscored the other side in points.
func (a *Aggregator) PairStats(scores []model.ProcessedScore, q PlayerQuery) PairTable {
	players := foldSet(q.Players)
	machines := foldSet(q.Machines)
	seasons := q.Seasons.Normalize()
	venue := fold(q.Venue)

	type gameID struct{ key, machine string }
	games := make(map[gameID]map[string]*gameSide)
	var order []gameID
	for _, s := range scores {
		if !seasons.Contains(s.Season) {
			continue
		}
		if venue != "" && fold(s.Venue) != venue {
			continue
		}
		m := fold(s.Machine)
		if !selected(machines, m) {
			continue
		}
		id := gameID{key: s.GameKey(), machine: m}
		sides, ok := games[id]
		if !ok {
			sides = make(map[string]*gameSide)
			games[id] = sides
			order = append(order, id)
		}
		team := fold(s.Team)
		side, ok := sides[team]
		if !ok {
			side = &gameSide{}
			sides[team] = side
		}
		side.points += s.Points
		side.players = append(side.players, s.Player)
	}

	table := make(PairTable)
	for _, id := range order {
		sides := games[id]
		var total float64
		for _, side := range sides {
			total += side.points
		}
		for _, side := range sides {
			won := side.points > total-side.points
			for i := 0; i < len(side.players); i++ {
				for j := i + 1; j < len(side.players); j++ {
					p1, p2 := side.players[i], side.players[j]
					if !selected(players, fold(p1)) || !selected(players, fold(p2)) || fold(p1) == fold(p2) {
						continue
					}
					if fold(p2) < fold(p1) {
						p1, p2 = p2, p1
					}
					k := pairKey(p1, p2, id.machine)
					st := table[k]
					st.Player1, st.Player2, st.Machine = displayName(players, p1), displayName(players, p2), id.machine
					st.GamesTogether++
					if won {
						st.Wins++
					}
					st.WinRate = ratio(float64(st.Wins), float64(st.GamesTogether))
					table[k] = st
				}
			}
		}
	}
	return table
}

func displayName(set map[string]string, name string) string {
	if n, ok := set[fold(name)]; ok {
		return n
	}
	return name
}
