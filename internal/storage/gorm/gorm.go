// Package gormstorage implements storage.Backend on top of any GORM
// dialect. The sqlite and postgres backends embed it.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/OCAP2/csvmap/internal/model"
	"github.com/OCAP2/csvmap/internal/storage"
	"github.com/OCAP2/csvmap/pkg/core"
)

// Backend archives imports in a SQL database.
type Backend struct {
	db     *gorm.DB
	logger *slog.Logger
}

// New creates a GORM backend on db.
func New(db *gorm.DB, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{db: db, logger: logger}
}

// DB returns the underlying handle.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

// Init migrates the archive tables.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close is a no-op; the connection is owned by the caller.
func (b *Backend) Close() error {
	return nil
}

// SaveImport writes the import and its markers in one transaction.
func (b *Backend) SaveImport(rec *core.ImportRecord) error {
	row, err := model.ImportFromCore(rec)
	if err != nil {
		return err
	}
	row.ID = 0

	err = b.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save import %s: %w", rec.Source, err)
	}

	rec.ID = row.ID
	b.logger.Debug("Archived import", "id", row.ID, "source", rec.Source, "markers", len(row.Markers))
	return nil
}

// ListImports returns the newest imports first.
func (b *Backend) ListImports(limit int) ([]core.ImportSummary, error) {
	var rows []model.Import
	err := b.db.Order("id DESC").Limit(storage.NormalizeLimit(limit)).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}

	out := make([]core.ImportSummary, 0, len(rows))
	for _, row := range rows {
		s, err := model.SummaryToCore(row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// GetImport returns one import with its markers in input order.
func (b *Backend) GetImport(id uint) (*core.ImportRecord, error) {
	var row model.Import
	err := b.db.
		Preload("Markers", func(db *gorm.DB) *gorm.DB { return db.Order("input_index ASC") }).
		First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load import %d: %w", id, err)
	}
	return model.ImportToCore(row)
}
