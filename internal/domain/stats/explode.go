package stats

import (
	"strings"

	"github.com/okian/flipper/internal/domain/model"
)

// Explode flattens game records into one ProcessedScore per played slot.
// Slots without a score are dropped. The picking side alternates by round:
// the home team picks odd rounds and the away team even rounds. names may be
// nil, in which case team keys stand in for names and machines are only
// lower-cased.
func Explode(records []model.GameRecord, names Names) []model.ProcessedScore {
	out := make([]model.ProcessedScore, 0, len(records)*model.SlotCount)
	for _, rec := range records {
		machine := rec.Machine
		if names != nil {
			machine = names.CanonicalMachine(machine)
		}
		machine = fold(machine)
		homePicks := rec.Round%2 == 1

		for _, slot := range rec.Slots {
			if !slot.Played() || strings.TrimSpace(slot.Player) == "" {
				continue
			}
			teamName := slot.Team
			if names != nil {
				if n := names.TeamName(slot.Team); n != "" {
					teamName = n
				}
			}
			var points float64
			if slot.Points != nil {
				points = *slot.Points
			}
			isHome := fold(slot.Team) == fold(rec.HomeTeam)

			out = append(out, model.ProcessedScore{
				Season:         rec.Season,
				Week:           rec.Week,
				Match:          rec.Match,
				Round:          rec.Round,
				Venue:          rec.Venue,
				Machine:        machine,
				Player:         slot.Player,
				Team:           slot.Team,
				TeamName:       teamName,
				Score:          *slot.Score,
				Points:         points,
				IsPick:         isHome == homePicks,
				IsRosterPlayer: !slot.Substitute,
				PlayedAt:       rec.PlayedAt,
			})
		}
	}
	return out
}
