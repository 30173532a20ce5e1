// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"time"
)

// SlotCount is the number of player positions on a single game record.
const SlotCount = 4

// PlayerSlot is one player position on a game. A nil Score means the
// position was not played and the slot is ignored by every aggregate.
type PlayerSlot struct {
	Player     string   `json:"player" yaml:"player"`
	Score      *int64   `json:"score,omitempty" yaml:"score,omitempty"`
	Points     *float64 `json:"points,omitempty" yaml:"points,omitempty"`
	Team       string   `json:"team" yaml:"team"` // team key the player represented
	Substitute bool     `json:"substitute,omitempty" yaml:"substitute,omitempty"`
}

// Played reports whether the slot carries a score.
func (s PlayerSlot) Played() bool {
	return s.Score != nil
}

// GameRecord is one played game on one machine in one round of one match.
type GameRecord struct {
	Season   int       `json:"season" yaml:"season"`
	Week     int       `json:"week" yaml:"week"`
	Match    string    `json:"match" yaml:"match"`
	Round    int       `json:"round" yaml:"round"`
	Venue    string    `json:"venue" yaml:"venue"`
	Machine  string    `json:"machine" yaml:"machine"`
	HomeTeam string    `json:"home_team" yaml:"home_team"`
	AwayTeam string    `json:"away_team" yaml:"away_team"`
	PlayedAt time.Time `json:"played_at,omitempty" yaml:"played_at,omitempty"`

	Slots [SlotCount]PlayerSlot `json:"slots" yaml:"slots"`
}

// ProcessedScore is one player's result in one game.
type ProcessedScore struct {
	Season         int       `json:"season"`
	Week           int       `json:"week"`
	Match          string    `json:"match"`
	Round          int       `json:"round"`
	Venue          string    `json:"venue"`
	Machine        string    `json:"machine"`
	Player         string    `json:"player"`
	Team           string    `json:"team"`
	TeamName       string    `json:"team_name"`
	Score          int64     `json:"score"`
	Points         float64   `json:"points"`
	IsPick         bool      `json:"is_pick"`
	IsRosterPlayer bool      `json:"is_roster_player"`
	PlayedAt       time.Time `json:"played_at,omitempty"`
}

// GameKey identifies the (match, round) a score belongs to.
func (p ProcessedScore) GameKey() string {
	return p.Match + "-" + strconv.Itoa(p.Round)
}

// SeasonRange is an inclusive season window.
type SeasonRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether season lies inside the range.
func (r SeasonRange) Contains(season int) bool {
	return season >= r.Min && season <= r.Max
}

// Normalize returns the range with Min <= Max.
func (r SeasonRange) Normalize() SeasonRange {
	if r.Min > r.Max {
		return SeasonRange{Min: r.Max, Max: r.Min}
	}
	return r
}
