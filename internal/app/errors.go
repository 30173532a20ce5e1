package app

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrFetchRecords   = errors.New("fetch game records")
)
