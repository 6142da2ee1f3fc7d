// internal/storage/storage.go
package storage

import (
	"errors"

	"github.com/OCAP2/csvmap/pkg/core"
)

// ErrNotFound is returned by GetImport for an unknown id.
var ErrNotFound = errors.New("import not found")

// DefaultListLimit caps ListImports when the caller passes no limit.
const DefaultListLimit = 50

// Backend is the interface all import archive implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveImport stores rec and assigns rec.ID.
	SaveImport(rec *core.ImportRecord) error
	// ListImports returns the newest imports first.
	ListImports(limit int) ([]core.ImportSummary, error)
	// GetImport returns one import with its markers.
	GetImport(id uint) (*core.ImportRecord, error)
}

// Exporter is an optional interface for backends that write each import
// to a file.
type Exporter interface {
	LastExportPath() string
}

// NormalizeLimit applies DefaultListLimit to non-positive limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
