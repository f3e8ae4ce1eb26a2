package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by caches when a key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoRows is the underlying cause of a WriteError when there is
	// nothing to export.
	ErrNoRows = errors.New("no rows to export")
)

// FetchError means every candidate Gamma endpoint was tried and none yielded
// a usable market list. Last carries the error from the final attempt.
type FetchError struct {
	Last error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch markets from Polymarket: last error: %v", e.Last)
}

func (e *FetchError) Unwrap() error {
	return e.Last
}

// WriteError means the workbook could not be produced, either because the
// row set was empty or because the underlying file write failed.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write workbook %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
