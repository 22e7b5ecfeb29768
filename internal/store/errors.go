package store

import "errors"

var (
	// ErrWriteFailed wraps every failure to persist a list.
	ErrWriteFailed = errors.New("recordkeep: store write failed")

	// ErrReadFailed wraps I/O failures reported through LoadResult.Err.
	ErrReadFailed = errors.New("recordkeep: store read failed")
)
