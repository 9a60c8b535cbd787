package backend

import (
	"context"

	"tesouraria/internal/reports"
)

// Backend bundles every persistence port the report service needs.
type Backend interface {
	reports.RosterReader
	reports.ReportStore
	reports.SpreadsheetStore
}

// CleanupFunc releases a backend's resources.
type CleanupFunc func() error

// Result carries the backend instance, an optional export publisher, and an
// optional cleanup function.
type Result struct {
	Backend   Backend
	Publisher reports.ExportPublisher
	Cleanup   CleanupFunc
}

// Factory creates backends from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds backend creation parameters.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Memory backend specific
	DataDirectory string
}

// Type selects the persistence backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
