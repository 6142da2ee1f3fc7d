// Package postgres archives imports in a Postgres database.
package postgres

import (
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/OCAP2/csvmap/internal/config"
	"github.com/OCAP2/csvmap/internal/database"
	gormstorage "github.com/OCAP2/csvmap/internal/storage/gorm"
)

// Backend wraps the GORM backend with a Postgres connection.
type Backend struct {
	*gormstorage.Backend
	db *database.Manager
}

// New connects to Postgres with cfg.
func New(cfg config.DBConfig, log *slog.Logger, dbLog zerolog.Logger) (*Backend, error) {
	mgr := database.NewManager(dbLog)
	if err := mgr.ConnectPostgres(cfg); err != nil {
		return nil, err
	}
	return &Backend{Backend: gormstorage.New(mgr.DB, log), db: mgr}, nil
}

// Init migrates the schema.
func (b *Backend) Init() error {
	return b.db.Setup()
}

// Close closes the connection pool.
func (b *Backend) Close() error {
	return b.db.Close()
}
