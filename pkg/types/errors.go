package types

import (
	"errors"
	"fmt"
)

// Domain errors for type validation
var (
	ErrEmptyItemName         = errors.New("item name cannot be empty")
	ErrNegativeQuantity      = errors.New("quantity must be >= 0")
	ErrInvalidPrice          = errors.New("price must be >= 0 or unknown")
	ErrInvalidRelevanceScore = errors.New("relevance score must be between 0 and 1")
	ErrMissingStrategy       = errors.New("match strategy is required")

	// Query errors
	ErrEmptyQuery = errors.New("query cannot be empty")
)

// LoadError reports a catalog snapshot that could not be read or decoded
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load catalog: %v", e.Err)
	}
	return fmt.Sprintf("load catalog %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ParseError reports a price capture that could not be converted to a number
type ParseError struct {
	Family  string // pattern family, e.g. "between"
	Capture string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s amount %q: %v", e.Family, e.Capture, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
