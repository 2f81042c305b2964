package storage

import (
	"context"
	"errors"

	"aeo-analytics/models"
)

var (
	// ErrNotConfigured is returned when no location is set for a table.
	ErrNotConfigured = errors.New("storage: table location not configured")
	// ErrNotFound is returned when a configured location does not exist.
	ErrNotFound = errors.New("storage: table not found")
)

// TableSource is the interface any input backend must satisfy. kind is one
// of the models.Table* constants.
type TableSource interface {
	ReadTable(ctx context.Context, kind string) (*models.Table, error)
	Describe(kind string) string
}

// TableWriter persists raw input tables, e.g. a ranked scores table or an
// import into PostgreSQL.
type TableWriter interface {
	WriteTable(ctx context.Context, t *models.Table) error
	Close() error
}
