// Package assign solves the bipartite assignment of rows (players) to
// columns (machines) over a cost matrix.
package assign

import "fmt"

// Result holds a solved assignment. Assignments[row] is the column assigned
// to row, or -1 when the row could not be placed.
type Result struct {
	Assignments []int
	TotalCost   float64
}

// Pairs returns the assigned (row, col) pairs in row order.
func (r Result) Pairs() [][2]int {
	out := make([][2]int, 0, len(r.Assignments))
	for row, col := range r.Assignments {
		if col >= 0 {
			out = append(out, [2]int{row, col})
		}
	}
	return out
}

// dims returns the row and column count, rejecting ragged input.
func dims(cost [][]float64) (int, int, error) {
	rows := len(cost)
	if rows == 0 {
		return 0, 0, nil
	}
	cols := len(cost[0])
	for i, row := range cost {
		if len(row) != cols {
			return 0, 0, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), cols, ErrRaggedMatrix)
		}
	}
	return rows, cols, nil
}

func totalCost(cost [][]float64, assignments []int) float64 {
	var total float64
	for row, col := range assignments {
		if col >= 0 {
			total += cost[row][col]
		}
	}
	return total
}
