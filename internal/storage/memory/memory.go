// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/OCAP2/csvmap/internal/config"
	"github.com/OCAP2/csvmap/internal/storage"
	"github.com/OCAP2/csvmap/pkg/core"
)

// Backend keeps archived imports in memory and optionally exports each
// one to a GeoJSON file.
type Backend struct {
	cfg     config.MemoryConfig
	imports []*core.ImportRecord // oldest first

	lastExportPath string
	idCounter      uint
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// SaveImport stores a copy of rec and assigns its id.
func (b *Backend) SaveImport(rec *core.ImportRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	rec.ID = b.idCounter

	stored := cloneRecord(rec)
	b.imports = append(b.imports, stored)

	if b.cfg.ExportGeoJSON {
		if err := b.exportGeoJSON(stored); err != nil {
			return err
		}
	}
	return nil
}

// ListImports returns the newest imports first.
func (b *Backend) ListImports(limit int) ([]core.ImportSummary, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	limit = storage.NormalizeLimit(limit)
	out := make([]core.ImportSummary, 0, min(limit, len(b.imports)))
	for i := len(b.imports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, cloneRecord(b.imports[i]).ImportSummary)
	}
	return out, nil
}

// GetImport returns a copy of one import.
func (b *Backend) GetImport(id uint) (*core.ImportRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, rec := range b.imports {
		if rec.ID == id {
			return cloneRecord(rec), nil
		}
	}
	return nil, storage.ErrNotFound
}

// LastExportPath returns the file written for the latest import, or ""
// when exporting is off.
func (b *Backend) LastExportPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

func cloneRecord(rec *core.ImportRecord) *core.ImportRecord {
	out := *rec
	out.Groups = append([]core.GroupSummary{}, rec.Groups...)
	out.Markers = append([]core.MarkerDescriptor{}, rec.Markers...)
	return &out
}
