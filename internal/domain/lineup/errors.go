package lineup

import "errors"

// ErrInvalidInput reports a request the optimizer cannot satisfy, such as a
// player count that does not fit the format.
var ErrInvalidInput = errors.New("invalid lineup input")
