// Package source fetches game records for the statistics engine.
package source

import (
	"context"
	"strings"

	"github.com/okian/flipper/internal/domain/model"
)

// Filter narrows the records a Source returns. Zero values select
// everything: an empty Seasons range, no Machines, no Venue and no Team.
type Filter struct {
	Seasons  model.SeasonRange
	Machines []string
	Venue    string
	// Team is a team key; a record matches when either side is that team.
	Team string
}

// Source returns game records matching a filter. Records may come back in
// any order and may contain duplicates.
type Source interface {
	FetchGames(ctx context.Context, f Filter) ([]model.GameRecord, error)
}

// Variations expands a machine name into every spelling it is stored under.
type Variations interface {
	MachineVariations(name string) []string
}

// matcher is a compiled Filter.
type matcher struct {
	f        Filter
	machines map[string]struct{}
}

func compile(f Filter, v Variations) matcher {
	m := matcher{f: f}
	if len(f.Machines) > 0 {
		m.machines = make(map[string]struct{})
		for _, name := range f.Machines {
			m.machines[fold(name)] = struct{}{}
			if v != nil {
				for _, alt := range v.MachineVariations(name) {
					m.machines[fold(alt)] = struct{}{}
				}
			}
		}
	}
	return m
}

func (m matcher) match(rec model.GameRecord) bool {
	if (m.f.Seasons != model.SeasonRange{}) && !m.f.Seasons.Normalize().Contains(rec.Season) {
		return false
	}
	if m.machines != nil {
		if _, ok := m.machines[fold(rec.Machine)]; !ok {
			return false
		}
	}
	if v := fold(m.f.Venue); v != "" && fold(rec.Venue) != v {
		return false
	}
	if t := fold(m.f.Team); t != "" && fold(rec.HomeTeam) != t && fold(rec.AwayTeam) != t {
		return false
	}
	return true
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
