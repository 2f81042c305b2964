package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataUnavailable means a table could not be read: its location is
	// missing or unreadable, or the load timed out.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrSchema means a table was read but does not have the expected shape.
	ErrSchema = errors.New("schema error")
	// ErrEmptyDataset means a ratio would divide by zero rows.
	ErrEmptyDataset = errors.New("empty dataset")

	ErrCategoryNotFound   = errors.New("category not found")
	ErrCompetitorNotFound = errors.New("competitor not found")
	ErrInvalidScenario    = errors.New("invalid scenario")
)

// SchemaError describes why a table failed validation. It matches ErrSchema
// with errors.Is.
type SchemaError struct {
	Table   string
	Missing []string
	Row     int
	Column  string
	Value   string
	Reason  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schema error in %s table", e.Table)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing required columns %v", e.Missing)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": row %d column %q value %q", e.Row, e.Column, e.Value)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return ErrSchema }
