package assign

import "fmt"

// zeroTolerance treats reduced entries this close to zero as zero.
const zeroTolerance = 1e-12

// Hungarian returns the optimal assignment for a square cost matrix. With
// maximize set the total cost is maximized, otherwise minimized. Among equal
// optima the first zero in row-major order of the reduced matrix wins, so the
// result is deterministic for a given matrix. TotalCost is computed against
// the original matrix.
func Hungarian(cost [][]float64, maximize bool) (Result, error) {
	rows, cols, err := dims(cost)
	if err != nil {
		return Result{}, err
	}
	if rows != cols {
		return Result{}, fmt.Errorf("%dx%d: %w", rows, cols, ErrNotSquare)
	}
	n := rows
	if n == 0 {
		return Result{Assignments: []int{}}, nil
	}

	m := reducedMatrix(cost, maximize)

	rowMatch := make([]int, n)
	colMatch := make([]int, n)
	for i := range rowMatch {
		rowMatch[i] = -1
		colMatch[i] = -1
	}

	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if isZero(m[r][c]) && colMatch[c] == -1 {
				rowMatch[r] = c
				colMatch[c] = r
				break
			}
		}
	}

	for r := 0; r < n; r++ {
		if rowMatch[r] != -1 {
			continue
		}
		for {
			visited := make([]bool, n)
			if augment(r, m, rowMatch, colMatch, visited) {
				break
			}
			adjust(m, r, colMatch, visited)
		}
	}

	return Result{Assignments: rowMatch, TotalCost: totalCost(cost, rowMatch)}, nil
}

// reducedMatrix copies cost, turns a maximization into a minimization by
// subtracting every entry from the global maximum, then applies row and
// column reduction so that every row and column holds at least one zero.
func reducedMatrix(cost [][]float64, maximize bool) [][]float64 {
	n := len(cost)
	m := make([][]float64, n)
	for i := range cost {
		m[i] = append([]float64(nil), cost[i]...)
	}

	if maximize {
		peak := m[0][0]
		for _, row := range m {
			for _, v := range row {
				if v > peak {
					peak = v
				}
			}
		}
		for _, row := range m {
			for j := range row {
				row[j] = peak - row[j]
			}
		}
	}

	for _, row := range m {
		low := row[0]
		for _, v := range row[1:] {
			if v < low {
				low = v
			}
		}
		for j := range row {
			row[j] -= low
		}
	}

	for j := 0; j < n; j++ {
		low := m[0][j]
		for i := 1; i < n; i++ {
			if m[i][j] < low {
				low = m[i][j]
			}
		}
		for i := 0; i < n; i++ {
			m[i][j] -= low
		}
	}
	return m
}

// augment searches for an augmenting path of zero entries starting at row.
// Columns are tried in ascending order and each column is entered at most
// once per search through visited. On success the matching is flipped along
// the path.
func augment(row int, m [][]float64, rowMatch, colMatch []int, visited []bool) bool {
	for c := range m[row] {
		if visited[c] || !isZero(m[row][c]) {
			continue
		}
		visited[c] = true
		if colMatch[c] == -1 || augment(colMatch[c], m, rowMatch, colMatch, visited) {
			rowMatch[row] = c
			colMatch[c] = row
			return true
		}
	}
	return false
}

// adjust creates a new zero reachable from the failed search rooted at row.
// The rows of the search tree are the root plus the rows matched to visited
// columns. The smallest entry between a tree row and an unvisited column is
// subtracted from every such entry and added to every entry between a
// non-tree row and a visited column. Matched entries keep their zero.
func adjust(m [][]float64, row int, colMatch []int, visited []bool) {
	n := len(m)
	inTree := make([]bool, n)
	inTree[row] = true
	for c, seen := range visited {
		if seen && colMatch[c] != -1 {
			inTree[colMatch[c]] = true
		}
	}

	delta := 0.0
	found := false
	for r := 0; r < n; r++ {
		if !inTree[r] {
			continue
		}
		for c := 0; c < n; c++ {
			if visited[c] {
				continue
			}
			if !found || m[r][c] < delta {
				delta = m[r][c]
				found = true
			}
		}
	}
	if !found {
		return
	}

	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			switch {
			case inTree[r] && !visited[c]:
				m[r][c] -= delta
			case !inTree[r] && visited[c]:
				m[r][c] += delta
			}
		}
	}
}

func isZero(v float64) bool {
	return v <= zeroTolerance && v >= -zeroTolerance
}
