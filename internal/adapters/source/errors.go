package source

import "errors"

// Sentinel kinds for record source errors.
var (
	ErrReadRecords  = errors.New("read game records")
	ErrParseRecords = errors.New("parse game records")
)
