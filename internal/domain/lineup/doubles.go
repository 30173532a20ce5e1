package lineup

import (
	"github.com/okian/flipper/internal/domain/model"
	"github.com/okian/flipper/internal/domain/scoring"
	"github.com/okian/flipper/internal/domain/stats"
)

// doubles fills machines one at a time, in request order, with the best
// scoring pair of players still free. The result depends on machine order
// and is not guaranteed optimal.
func (o *Optimizer) doubles(req Request, table stats.PlayerTable, pairs stats.PairTable) model.OptimizationResult {
	used := make([]bool, len(req.Players))
	out := make([]model.PairAssignment, 0, len(req.Machines))

	for _, machine := range req.Machines {
		bestI, bestJ := -1, -1
		var bestScore, bestSynergy float64
		for i := 0; i < len(req.Players); i++ {
			if used[i] {
				continue
			}
			for j := i + 1; j < len(req.Players); j++ {
				if used[j] {
					continue
				}
				p1, p2 := req.Players[i], req.Players[j]
				s1, s2 := table.Get(p1, machine), table.Get(p2, machine)
				synergy := o.scorer.PairSynergy(s1, s2, pairs.WinRate(p1, p2, machine))
				combined := o.scorer.Score(s1) + o.scorer.Score(s2) + synergy
				if bestI == -1 || combined > bestScore {
					bestI, bestJ = i, j
					bestScore, bestSynergy = combined, synergy
				}
			}
		}
		if bestI == -1 {
			continue
		}
		used[bestI], used[bestJ] = true, true
		out = append(out, model.PairAssignment{
			Player1:       req.Players[bestI],
			Player2:       req.Players[bestJ],
			Machine:       machine,
			ExpectedScore: bestScore,
			SynergyBonus:  bestSynergy,
		})
	}

	var total float64
	for _, p := range out {
		total += p.ExpectedScore
	}
	var mean float64
	if len(out) > 0 {
		mean = total / float64(len(out))
	}

	return model.OptimizationResult{
		Format:         model.FormatDoubles,
		Pairs:          out,
		TotalScore:     total,
		WinProbability: scoring.WinProbability(mean / 2),
		Suggestions:    doublesSuggestions(len(req.Machines), out),
	}
}
