package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// Streak direction of the most recent run of results.
type Streak string

const (
	StreakNone Streak = ""
	StreakWin  Streak = "win"
	StreakLoss Streak = "loss"
)

// PlayerMachineStats aggregates one player's results on one machine.
type PlayerMachineStats struct {
	Player          string    `json:"player"`
	Machine         string    `json:"machine"`
	GamesPlayed     int       `json:"games_played"`
	Wins            int       `json:"wins"`
	Losses          int       `json:"losses"`
	WinRate         float64   `json:"win_rate"`
	AvgScore        float64   `json:"avg_score"`
	HighScore       int64     `json:"high_score"`
	RecentForm      float64   `json:"recent_form"`
	Streak          Streak    `json:"streak_type,omitempty"`
	StreakCount     int       `json:"streak_count"`
	ConfidenceScore int       `json:"confidence_score"`
	LastPlayed      time.Time `json:"last_played,omitzero"`
}

// PairStats aggregates the games two teammates played together on a machine.
type PairStats struct {
	Player1       string  `json:"player1"`
	Player2       string  `json:"player2"`
	Machine       string  `json:"machine"`
	GamesTogether int     `json:"games_together"`
	Wins          int     `json:"wins"`
	WinRate       float64 `json:"win_rate"`
}

// ReferenceStats mirrors the team columns of MachineStats for the reference
// team the subject is compared against.
type ReferenceStats struct {
	Average           float64 `json:"twcAverage"`
	PercentOfVenueAvg float64 `json:"twcPercentOfVenueAvg"`
	TimesPlayed       int     `json:"twcTimesPlayed"`
	TimesPicked       int     `json:"twcTimesPicked"`
	Pops              float64 `json:"twcPops"`
	PopsPicking       float64 `json:"twcPopsPicking"`
	PopsResponding    float64 `json:"twcPopsResponding"`
}

// MachineStats aggregates a team's results on one machine at one venue.
type MachineStats struct {
	Machine           string  `json:"machine"`
	TeamAverage       float64 `json:"teamAverage"`
	TeamHighestScore  int64   `json:"teamHighestScore"`
	VenueAverage      float64 `json:"venueAverage"`
	PercentOfVenueAvg float64 `json:"percentOfVenueAvg"`
	TimesPlayed       int     `json:"timesPlayed"`
	TimesPicked       int     `json:"timesPicked"`
	Pops              float64 `json:"pops"`
	PopsPicking       float64 `json:"popsPicking"`
	PopsResponding    float64 `json:"popsResponding"`

	// Reference is nil unless a reference team was requested.
	Reference         *ReferenceStats `json:"reference,omitempty"`
	PercentComparison *Comparison     `json:"percentComparison,omitempty"`
	PopsComparison    *Comparison     `json:"popsComparison,omitempty"`
}

// ComparisonKind tags the variant held by a Comparison.
type ComparisonKind int

const (
	// BothZero means neither side has a value.
	BothZero ComparisonKind = iota
	// SubjectOnly means only the subject team has a value.
	SubjectOnly
	// ReferenceOnly means only the reference team has a value.
	ReferenceOnly
	// Numeric carries reference minus subject.
	Numeric
)

// Comparison is the difference between a reference value and a subject value.
type Comparison struct {
	Kind  ComparisonKind
	Value float64
}

// Compare builds the comparison of reference against subject.
func Compare(reference, subject float64) Comparison {
	switch {
	case reference == 0 && subject == 0:
		return Comparison{Kind: BothZero}
	case reference == 0:
		return Comparison{Kind: SubjectOnly}
	case subject == 0:
		return Comparison{Kind: ReferenceOnly}
	default:
		return Comparison{Kind: Numeric, Value: reference - subject}
	}
}

// String renders the display form: a number, "+", "-" or "N/A".
func (c Comparison) String() string {
	switch c.Kind {
	case Numeric:
		return strconv.FormatFloat(c.Value, 'f', -1, 64)
	case ReferenceOnly:
		return "+"
	case SubjectOnly:
		return "-"
	default:
		return "N/A"
	}
}

// MarshalJSON renders numeric comparisons as JSON numbers and sentinels as strings.
func (c Comparison) MarshalJSON() ([]byte, error) {
	if c.Kind == Numeric {
		return json.Marshal(c.Value)
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts either a number or one of the sentinel strings.
func (c *Comparison) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		*c = Comparison{Kind: Numeric, Value: v}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "+":
		*c = Comparison{Kind: ReferenceOnly}
	case "-":
		*c = Comparison{Kind: SubjectOnly}
	default:
		*c = Comparison{Kind: BothZero}
	}
	return nil
}
