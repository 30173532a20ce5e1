package stats

import (
	"sort"

	"github.com/okian/flipper/internal/domain/model"
)

// Diagnostics describes the data behind a machine stats answer so callers can
// tell an empty result from a team name that never matched.
type Diagnostics struct {
	ProcessedScores int      `json:"processedScoresCount"`
	Team            string   `json:"teamNameSearching"`
	Teams           []string `json:"uniqueTeamsInData"`
	TeamScores      int      `json:"teamScoresFound"`
	TeamMachines    []string `json:"teamMachines"`
}

// Diagnose summarizes scores from the point of view of team.
func Diagnose(scores []model.ProcessedScore, team string) Diagnostics {
	teams := make(map[string]struct{})
	machines := make(map[string]struct{})
	d := Diagnostics{ProcessedScores: len(scores), Team: team}
	key := fold(team)
	for _, s := range scores {
		teams[s.TeamName] = struct{}{}
		if fold(s.TeamName) == key {
			d.TeamScores++
			machines[s.Machine] = struct{}{}
		}
	}
	d.Teams = sortedKeys(teams)
	d.TeamMachines = sortedKeys(machines)
	return d
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
