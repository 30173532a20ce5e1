package lineup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/flipper/internal/domain/model"
	"github.com/okian/flipper/internal/domain/scoring"
	"github.com/okian/flipper/internal/domain/stats"
)

const (
	hotStreakGames   = 3
	farFromBestRatio = 1.1
	synergyThreshold = 0.1
)

// singlesSuggestions turns a singles lineup into short advice.
func (o *Optimizer) singlesSuggestions(req Request, table stats.PlayerTable, assignments []model.Assignment) []string {
	var out []string

	low := 0
	for _, a := range assignments {
		if scoring.LowConfidence(a.Confidence) {
			low++
		}
	}
	if low > 0 {
		out = append(out, fmt.Sprintf("%d assignment(s) have low confidence due to limited game history. Consider recent practice performance.", low))
	}

	for _, a := range assignments {
		if o.farFromBest(req.Machines, table, a) {
			out = append(out, "Consider assigning player to their strongest machines if possible")
			break
		}
	}

	hot := 0
	for _, a := range assignments {
		st := table.Get(a.Player, a.Machine)
		if st != nil && st.Streak == model.StreakWin && st.StreakCount >= hotStreakGames {
			hot++
		}
	}
	if hot > 0 {
		out = append(out, fmt.Sprintf("%d player(s) are on hot streaks - lineup is well optimized", hot))
	}

	if len(out) == 0 {
		out = append(out, "Lineup looks solid! Focus on execution and machine-specific strategies.")
	}
	return out
}

// farFromBest reports whether the assigned machine scores more than 10% below
// the player's top rated one. Only machines with history count.
func (o *Optimizer) farFromBest(machines []string, table stats.PlayerTable, a model.Assignment) bool {
	type rated struct {
		machine string
		score   float64
	}
	var ranked []rated
	for _, m := range machines {
		if st := table.Get(a.Player, m); st != nil {
			ranked = append(ranked, rated{machine: m, score: o.scorer.Score(st)})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	for rank, r := range ranked {
		if !strings.EqualFold(r.machine, a.Machine) {
			continue
		}
		return rank > 0 && r.score*farFromBestRatio < ranked[0].score
	}
	return false
}

// doublesSuggestions reports incomplete pairings and notable synergy.
func doublesSuggestions(machines int, pairs []model.PairAssignment) []string {
	var out []string
	if len(pairs) < machines {
		out = append(out, "Warning: Could not create optimal pairs for all machines")
	}

	strong, weak := 0, 0
	for _, p := range pairs {
		switch {
		case p.SynergyBonus > synergyThreshold:
			strong++
		case p.SynergyBonus < -synergyThreshold:
			weak++
		}
	}
	if strong > 0 {
		out = append(out, fmt.Sprintf("%d pair(s) show strong synergy - excellent!", strong))
	}
	if weak > 0 {
		out = append(out, fmt.Sprintf("%d pair(s) may benefit from different pairing", weak))
	}

	if len(out) == 0 {
		out = append(out, "Pairs look well balanced for the selected machines")
	}
	return out
}
