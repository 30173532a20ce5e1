package stats

import (
	"sort"

	"github.com/okian/flipper/internal/domain/model"
)

// MachineOptions tunes MachineStats.
type MachineOptions struct {
	// ScoreLimits maps a machine to the highest believable score. Larger
	// scores are left out of averages and high scores for that machine.
	// Keys are matched case-insensitively.
	ScoreLimits map[string]int64
	// TeamVenueSpecific restricts the subject team's rows to the venue.
	TeamVenueSpecific bool
	// ReferenceVenueSpecific restricts the reference team's rows to the venue.
	ReferenceVenueSpecific bool
	// ReferenceTeam enables the reference block and comparisons when set.
	ReferenceTeam string
}

// DefaultMachineOptions returns venue-specific subject rows and all-venue
// reference rows.
func DefaultMachineOptions() MachineOptions {
	return MachineOptions{TeamVenueSpecific: true}
}

// sideStats is the per-team summary shared by the subject and reference.
type sideStats struct {
	average        float64
	highest        int64
	timesPlayed    int
	timesPicked    int
	pops           float64
	popsPicking    float64
	popsResponding float64
}

// MachineStats summarizes how team performs on every machine at venue over
// seasons. Unknown teams and venues produce an empty or zeroed list, never
// an error.
func (a *Aggregator) MachineStats(scores []model.ProcessedScore, team, venue string, seasons model.SeasonRange, opts MachineOptions) []model.MachineStats {
	team, venueKey := fold(team), fold(venue)
	if team == "" || venueKey == "" {
		return []model.MachineStats{}
	}
	seasons = seasons.Normalize()
	limits := make(map[string]int64, len(opts.ScoreLimits))
	for m, l := range opts.ScoreLimits {
		// A limit of zero or less means no limit.
		if l > 0 {
			limits[fold(m)] = l
		}
	}
	reference := fold(opts.ReferenceTeam)

	var seasonRows, venueRows []model.ProcessedScore
	for _, s := range scores {
		if !seasons.Contains(s.Season) {
			continue
		}
		seasonRows = append(seasonRows, s)
		if fold(s.Venue) == venueKey {
			venueRows = append(venueRows, s)
		}
	}

	teamRows := byMachine(teamFilter(pick(opts.TeamVenueSpecific, venueRows, seasonRows), team))
	var referenceRows map[string][]model.ProcessedScore
	if reference != "" {
		referenceRows = byMachine(teamFilter(pick(opts.ReferenceVenueSpecific, venueRows, seasonRows), reference))
	}
	venueByMachine := byMachine(venueRows)

	machines := machineUniverse(venueRows, seasons.Max)
	if a.overrides != nil {
		machines = a.overrides.Apply(venue, machines)
	}

	out := make([]model.MachineStats, 0, len(machines))
	for _, machine := range machines {
		key := fold(machine)
		limit, hasLimit := limits[key]

		venueAvg, _ := scoreSummary(venueByMachine[key], limit, hasLimit)
		subject := summarize(teamRows[key], limit, hasLimit)

		ms := model.MachineStats{
			Machine:           machine,
			TeamAverage:       subject.average,
			TeamHighestScore:  subject.highest,
			VenueAverage:      venueAvg,
			PercentOfVenueAvg: ratio(subject.average, venueAvg) * 100,
			TimesPlayed:       subject.timesPlayed,
			TimesPicked:       subject.timesPicked,
			Pops:              subject.pops,
			PopsPicking:       subject.popsPicking,
			PopsResponding:    subject.popsResponding,
		}

		if reference != "" {
			ref := summarize(referenceRows[key], limit, hasLimit)
			ms.Reference = &model.ReferenceStats{
				Average:           ref.average,
				PercentOfVenueAvg: ratio(ref.average, venueAvg) * 100,
				TimesPlayed:       ref.timesPlayed,
				TimesPicked:       ref.timesPicked,
				Pops:              ref.pops,
				PopsPicking:       ref.popsPicking,
				PopsResponding:    ref.popsResponding,
			}
			pct := model.Compare(ms.Reference.PercentOfVenueAvg, ms.PercentOfVenueAvg)
			pops := model.Compare(ms.Reference.Pops, ms.Pops)
			ms.PercentComparison = &pct
			ms.PopsComparison = &pops
		}
		out = append(out, ms)
	}
	return out
}

// machineUniverse lists the machines seen at the venue in the latest season
// of the range, or across the whole range when the latest season has none.
func machineUniverse(venueRows []model.ProcessedScore, latest int) []string {
	recent := make(map[string]struct{})
	all := make(map[string]struct{})
	for _, s := range venueRows {
		all[s.Machine] = struct{}{}
		if s.Season == latest {
			recent[s.Machine] = struct{}{}
		}
	}
	set := recent
	if len(set) == 0 {
		set = all
	}
	machines := make([]string, 0, len(set))
	for m := range set {
		machines = append(machines, m)
	}
	sort.Strings(machines)
	return machines
}

func pick(venueOnly bool, venueRows, seasonRows []model.ProcessedScore) []model.ProcessedScore {
	if venueOnly {
		return venueRows
	}
	return seasonRows
}

func teamFilter(rows []model.ProcessedScore, team string) []model.ProcessedScore {
	var out []model.ProcessedScore
	for _, s := range rows {
		if fold(s.TeamName) == team {
			out = append(out, s)
		}
	}
	return out
}

func byMachine(rows []model.ProcessedScore) map[string][]model.ProcessedScore {
	out := make(map[string][]model.ProcessedScore)
	for _, s := range rows {
		k := fold(s.Machine)
		out[k] = append(out[k], s)
	}
	return out
}

// scoreSummary returns the mean and maximum of the scores within limit.
func scoreSummary(rows []model.ProcessedScore, limit int64, hasLimit bool) (float64, int64) {
	var (
		sum     float64
		n       int
		highest int64
	)
	for _, s := range rows {
		if hasLimit && s.Score > limit {
			continue
		}
		sum += float64(s.Score)
		if n == 0 || s.Score > highest {
			highest = s.Score
		}
		n++
	}
	return ratio(sum, float64(n)), highest
}

// summarize computes the side statistics for one team on one machine. Score
// limits apply to average and highest only; counts and POPS use every row.
func summarize(rows []model.ProcessedScore, limit int64, hasLimit bool) sideStats {
	var st sideStats
	st.average, st.highest = scoreSummary(rows, limit, hasLimit)

	played := make(map[string]struct{})
	picked := make(map[string]struct{})
	var points, pickPoints, respPoints float64
	var pickRows, respRows int
	for _, s := range rows {
		key := s.GameKey()
		played[key] = struct{}{}
		points += s.Points
		if s.IsPick {
			picked[key] = struct{}{}
			pickPoints += s.Points
			pickRows++
		} else {
			respPoints += s.Points
			respRows++
		}
	}
	st.timesPlayed = len(played)
	st.timesPicked = len(picked)
	st.pops = popsOf(points, len(rows))
	st.popsPicking = popsOf(pickPoints, pickRows)
	st.popsResponding = popsOf(respPoints, respRows)
	return st
}

// popsOf is the percentage of the points available to rows slots.
func popsOf(points float64, rows int) float64 {
	return ratio(points, float64(rows*pointsPerSlot)) * 100
}
