// Package leaguegen produces synthetic league game records for demos and
// load testing.
package leaguegen

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a Config cannot produce a schedule.
var ErrInvalidConfig = errors.New("invalid generator config")

// Config describes the league to simulate.
type Config struct {
	SeasonStart      int
	SeasonEnd        int
	Weeks            int      // weeks per season
	Teams            []string // team keys; each team hosts at its own venue
	PlayersPerTeam   int
	Machines         []string // machine pool shared by every venue
	MachinesPerVenue int
	Seed             uint64 // same seed, same league
}

// DefaultConfig returns a small two-season league.
func DefaultConfig() Config {
	return Config{
		SeasonStart:    20,
		SeasonEnd:      21,
		Weeks:          10,
		Teams:          []string{"TWC", "SKP", "PKT", "CRA", "DIH", "NLT"},
		PlayersPerTeam: 10,
		Machines: []string{
			"Medieval Madness", "Twilight Zone", "Attack from Mars", "Indiana Jones",
			"Godzilla", "Monster Bash", "Theatre of Magic", "Deadpool",
			"Foo Fighters", "Jurassic Park", "Star Trek", "Elvira's House of Horrors",
		},
		MachinesPerVenue: 9,
		Seed:             1,
	}
}

// Validate checks that a match can be filled: two teams, enough players for
// a doubles round and enough machines for a singles round.
func (c Config) Validate() error {
	switch {
	case c.SeasonStart > c.SeasonEnd:
		return fmt.Errorf("%w: season start %d is after season end %d", ErrInvalidConfig, c.SeasonStart, c.SeasonEnd)
	case c.Weeks <= 0:
		return fmt.Errorf("%w: weeks must be positive", ErrInvalidConfig)
	case len(c.Teams) < 2:
		return fmt.Errorf("%w: at least 2 teams are required", ErrInvalidConfig)
	case c.PlayersPerTeam < doublesPlayers:
		return fmt.Errorf("%w: at least %d players per team are required", ErrInvalidConfig, doublesPlayers)
	case c.MachinesPerVenue < singlesGames:
		return fmt.Errorf("%w: at least %d machines per venue are required", ErrInvalidConfig, singlesGames)
	case len(c.Machines) < c.MachinesPerVenue:
		return fmt.Errorf("%w: %d machines cannot stock %d per venue", ErrInvalidConfig, len(c.Machines), c.MachinesPerVenue)
	}
	return nil
}
