package lookup

import "errors"

// Sentinel kinds for lookup table errors.
var (
	ErrReadTables  = errors.New("read lookup tables")
	ErrParseTables = errors.New("parse lookup tables")
)
