package assign

import "errors"

// Sentinel kinds for solver input errors.
var (
	ErrRaggedMatrix = errors.New("cost matrix rows differ in length")
	ErrNotSquare    = errors.New("cost matrix is not square")
)
