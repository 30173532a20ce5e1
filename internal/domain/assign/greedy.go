package assign

import "sort"

type cell struct {
	row, col int
	value    float64
}

// Greedy claims cells in best-first order, skipping any whose row or column
// is already taken. It is fast and deterministic but not optimal; ties keep
// row-major order. Rectangular matrices are accepted and surplus rows stay
// unassigned.
func Greedy(cost [][]float64, maximize bool) (Result, error) {
	rows, cols, err := dims(cost)
	if err != nil {
		return Result{}, err
	}

	cells := make([]cell, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells = append(cells, cell{row: r, col: c, value: cost[r][c]})
		}
	}
	sort.SliceStable(cells, func(i, j int) bool {
		if maximize {
			return cells[i].value > cells[j].value
		}
		return cells[i].value < cells[j].value
	})

	assignments := make([]int, rows)
	for i := range assignments {
		assignments[i] = -1
	}
	usedCol := make([]bool, cols)
	placed := 0
	for _, cl := range cells {
		if placed == rows || placed == cols {
			break
		}
		if assignments[cl.row] != -1 || usedCol[cl.col] {
			continue
		}
		assignments[cl.row] = cl.col
		usedCol[cl.col] = true
		placed++
	}

	return Result{Assignments: assignments, TotalCost: totalCost(cost, assignments)}, nil
}
