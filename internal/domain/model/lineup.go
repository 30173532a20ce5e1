package model

// Format selects how players are placed on machines.
type Format string

const (
	// FormatSingles places one player per machine (league "7x7").
	FormatSingles Format = "7x7"
	// FormatDoubles places two players per machine (league "4x2").
	FormatDoubles Format = "4x2"
)

// Assignment places one player on one machine.
type Assignment struct {
	Player        string  `json:"player"`
	Machine       string  `json:"machine"`
	ExpectedScore float64 `json:"expected_score"`
	Confidence    int     `json:"confidence"`
}

// PairAssignment places two players on one machine.
type PairAssignment struct {
	Player1       string  `json:"player1"`
	Player2       string  `json:"player2"`
	Machine       string  `json:"machine"`
	ExpectedScore float64 `json:"expected_score"`
	SynergyBonus  float64 `json:"synergy_bonus"`
}

// OptimizationResult is the recommended lineup for a format. Singles results
// fill Assignments and Alternatives; doubles results fill Pairs.
type OptimizationResult struct {
	Format         Format           `json:"format"`
	Assignments    []Assignment     `json:"assignments,omitempty"`
	Pairs          []PairAssignment `json:"pairs,omitempty"`
	TotalScore     float64          `json:"total_score"`
	WinProbability float64          `json:"win_probability"`
	Suggestions    []string         `json:"suggestions"`
	Alternatives   [][]Assignment   `json:"alternative_assignments,omitempty"`
}
