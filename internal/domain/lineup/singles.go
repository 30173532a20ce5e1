package lineup

import (
	"fmt"

	"github.com/okian/flipper/internal/domain/assign"
	"github.com/okian/flipper/internal/domain/model"
	"github.com/okian/flipper/internal/domain/scoring"
	"github.com/okian/flipper/internal/domain/stats"
)

// singles solves the one-player-per-machine format exactly and adds the
// greedy lineup as an alternative.
func (o *Optimizer) singles(req Request, table stats.PlayerTable) (model.OptimizationResult, error) {
	cost := o.costMatrix(req.Players, req.Machines, table)

	best, err := assign.Hungarian(cost, true)
	if err != nil {
		return model.OptimizationResult{}, fmt.Errorf("solve lineup: %w", err)
	}
	alt, err := assign.Greedy(cost, true)
	if err != nil {
		return model.OptimizationResult{}, fmt.Errorf("solve alternative lineup: %w", err)
	}

	assignments := o.toAssignments(req, table, best)
	total, winProb := teamMetrics(assignments)

	return model.OptimizationResult{
		Format:         model.FormatSingles,
		Assignments:    assignments,
		TotalScore:     total,
		WinProbability: winProb,
		Suggestions:    o.singlesSuggestions(req, table, assignments),
		Alternatives:   [][]model.Assignment{o.toAssignments(req, table, alt)},
	}, nil
}

// costMatrix rates every player on every machine.
func (o *Optimizer) costMatrix(players, machines []string, table stats.PlayerTable) [][]float64 {
	cost := make([][]float64, len(players))
	for i, p := range players {
		cost[i] = make([]float64, len(machines))
		for j, m := range machines {
			cost[i][j] = o.scorer.Score(table.Get(p, m))
		}
	}
	return cost
}

func (o *Optimizer) toAssignments(req Request, table stats.PlayerTable, res assign.Result) []model.Assignment {
	pairs := res.Pairs()
	out := make([]model.Assignment, 0, len(pairs))
	for _, rc := range pairs {
		player, machine := req.Players[rc[0]], req.Machines[rc[1]]
		st := table.Get(player, machine)
		games := 0
		if st != nil {
			games = st.GamesPlayed
		}
		out = append(out, model.Assignment{
			Player:        player,
			Machine:       machine,
			ExpectedScore: o.scorer.Score(st),
			Confidence:    scoring.Confidence(games),
		})
	}
	return out
}

// teamMetrics sums expected scores and converts the mean to a win
// probability. An empty lineup is a coin flip.
func teamMetrics(assignments []model.Assignment) (float64, float64) {
	if len(assignments) == 0 {
		return 0, 0.5
	}
	var total float64
	for _, a := range assignments {
		total += a.ExpectedScore
	}
	return total, scoring.WinProbability(total / float64(len(assignments)))
}
