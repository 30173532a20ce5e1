package assign_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/okian/flipper/internal/domain/assign"
	. "github.com/smartystreets/goconvey/convey"
)

func randomMatrix(rng *rand.Rand, n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			// coarse values force plenty of ties
			m[i][j] = float64(rng.Intn(10)) / 10
		}
	}
	return m
}

// bruteForce enumerates every permutation and returns the best total.
func bruteForce(cost [][]float64, maximize bool) float64 {
	n := len(cost)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}
	var walk func(k int)
	walk = func(k int) {
		if k == n {
			var total float64
			for r, c := range perm {
				total += cost[r][c]
			}
			if (maximize && total > best) || (!maximize && total < best) {
				best = total
			}
			return
		}
		for i := k; i < n; i++ {
			perm[k], perm[i] = perm[i], perm[k]
			walk(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	walk(0)
	return best
}

func isPermutation(a []int) bool {
	seen := make([]bool, len(a))
	for _, c := range a {
		if c < 0 || c >= len(a) || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

func TestHungarian(t *testing.T) {
	Convey("Given the Hungarian solver", t, func() {
		Convey("When the matrix is empty", func() {
			res, err := assign.Hungarian(nil, true)

			Convey("Then the result should be empty", func() {
				So(err, ShouldBeNil)
				So(res.Assignments, ShouldBeEmpty)
				So(res.TotalCost, ShouldEqual, 0)
			})
		})

		Convey("When the matrix is not square", func() {
			_, err := assign.Hungarian([][]float64{{1, 2}}, false)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, assign.ErrNotSquare), ShouldBeTrue)
			})
		})

		Convey("When the matrix is ragged", func() {
			_, err := assign.Hungarian([][]float64{{1, 2}, {3}}, false)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, assign.ErrRaggedMatrix), ShouldBeTrue)
			})
		})

		Convey("When minimizing a known 3x3 matrix", func() {
			cost := [][]float64{
				{4, 1, 3},
				{2, 0, 5},
				{3, 2, 2},
			}
			res, err := assign.Hungarian(cost, false)

			Convey("Then it should find the optimum", func() {
				So(err, ShouldBeNil)
				So(res.Assignments, ShouldResemble, []int{1, 0, 2})
				So(res.TotalCost, ShouldEqual, 5)
			})
		})

		Convey("When maximizing a known 3x3 matrix", func() {
			cost := [][]float64{
				{0.9, 0.1, 0.1},
				{0.8, 0.7, 0.1},
				{0.1, 0.6, 0.5},
			}
			res, err := assign.Hungarian(cost, true)

			Convey("Then it should report the total from the original matrix", func() {
				So(err, ShouldBeNil)
				So(res.Assignments, ShouldResemble, []int{0, 1, 2})
				So(res.TotalCost, ShouldAlmostEqual, 2.1, 1e-12)
			})
		})

		Convey("When every entry is equal", func() {
			cost := [][]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
			res, _ := assign.Hungarian(cost, true)

			Convey("Then ties should resolve to the first zero in row-major order", func() {
				So(res.Assignments, ShouldResemble, []int{0, 1, 2})
			})
		})

		Convey("When the initial zero matching is incomplete", func() {
			cost := [][]float64{
				{0, 0, 9},
				{0, 9, 9},
				{0, 9, 9},
			}
			res, err := assign.Hungarian(cost, false)

			Convey("Then augmentation and reduction should still reach the optimum", func() {
				So(err, ShouldBeNil)
				So(isPermutation(res.Assignments), ShouldBeTrue)
				So(res.TotalCost, ShouldEqual, bruteForce(cost, false))
			})
		})

		Convey("When compared against brute force on random matrices", func() {
			rng := rand.New(rand.NewSource(7))

			Convey("Then it should match the exhaustive optimum for n up to 6", func() {
				for n := 1; n <= 6; n++ {
					for trial := 0; trial < 25; trial++ {
						cost := randomMatrix(rng, n)
						for _, maximize := range []bool{true, false} {
							res, err := assign.Hungarian(cost, maximize)
							So(err, ShouldBeNil)
							So(isPermutation(res.Assignments), ShouldBeTrue)
							So(res.TotalCost, ShouldAlmostEqual, bruteForce(cost, maximize), 1e-9)
						}
					}
				}
			})
		})

		Convey("When the same matrix is solved twice", func() {
			rng := rand.New(rand.NewSource(11))
			cost := randomMatrix(rng, 7)
			first, _ := assign.Hungarian(cost, true)
			second, _ := assign.Hungarian(cost, true)

			Convey("Then the results should be identical and the input untouched", func() {
				So(second, ShouldResemble, first)
				again := randomMatrix(rand.New(rand.NewSource(11)), 7)
				So(cost, ShouldResemble, again)
			})
		})
	})
}

func TestGreedy(t *testing.T) {
	Convey("Given the greedy solver", t, func() {
		Convey("When the best cells do not conflict", func() {
			cost := [][]float64{
				{0.9, 0.1},
				{0.2, 0.8},
			}
			res, err := assign.Greedy(cost, true)

			Convey("Then it should take them", func() {
				So(err, ShouldBeNil)
				So(res.Assignments, ShouldResemble, []int{0, 1})
				So(res.TotalCost, ShouldAlmostEqual, 1.7, 1e-12)
			})
		})

		Convey("When the greedy choice is a trap", func() {
			cost := [][]float64{
				{10, 9},
				{9, 1},
			}
			greedy, _ := assign.Greedy(cost, true)
			optimal, _ := assign.Hungarian(cost, true)

			Convey("Then greedy should be worse than the Hungarian optimum", func() {
				So(greedy.TotalCost, ShouldEqual, 11)
				So(optimal.TotalCost, ShouldEqual, 18)
			})
		})

		Convey("When minimizing", func() {
			res, _ := assign.Greedy([][]float64{{3, 1}, {1, 3}}, false)

			Convey("Then it should prefer the smallest cells", func() {
				So(res.Assignments, ShouldResemble, []int{1, 0})
				So(res.TotalCost, ShouldEqual, 2)
			})
		})

		Convey("When there are more rows than columns", func() {
			res, err := assign.Greedy([][]float64{{1}, {5}, {2}}, true)

			Convey("Then surplus rows should stay unassigned", func() {
				So(err, ShouldBeNil)
				So(res.Assignments, ShouldResemble, []int{-1, 0, -1})
				So(res.Pairs(), ShouldResemble, [][2]int{{1, 0}})
			})
		})

		Convey("When compared with the Hungarian solver on random matrices", func() {
			rng := rand.New(rand.NewSource(3))

			Convey("Then Hungarian should never be worse for n up to 8", func() {
				for n := 1; n <= 8; n++ {
					for trial := 0; trial < 20; trial++ {
						cost := randomMatrix(rng, n)
						g, _ := assign.Greedy(cost, true)
						h, _ := assign.Hungarian(cost, true)
						So(h.TotalCost, ShouldBeGreaterThanOrEqualTo, g.TotalCost-1e-9)
					}
				}
			})
		})
	})
}
