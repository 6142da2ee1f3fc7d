// Package sqlitestorage implements the storage.Backend interface using an
// in-memory SQLite database with periodic disk dumps via VACUUM INTO.
package sqlitestorage

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/OCAP2/csvmap/internal/config"
	"github.com/OCAP2/csvmap/internal/database"
	gormstorage "github.com/OCAP2/csvmap/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db        *database.Manager
	cfg       config.SQLiteConfig
	log       *slog.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	dumpGroup sync.WaitGroup
}

// New opens an in-memory SQLite database for the archive.
func New(cfg config.SQLiteConfig, log *slog.Logger, dbLog zerolog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}

	mgr := database.NewManager(dbLog)
	if err := mgr.ConnectSqlite("", cfg.DumpPath); err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}

	return &Backend{
		Backend:  gormstorage.New(mgr.DB, log),
		db:       mgr,
		cfg:      cfg,
		log:      log,
		stopChan: make(chan struct{}),
	}, nil
}

// Init migrates the schema and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.db.Setup(); err != nil {
		return err
	}

	if b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		b.dumpGroup.Add(1)
		go b.dumpLoop()
	}

	return nil
}

// Close stops the dump goroutine, writes a final dump and closes the
// database.
func (b *Backend) Close() error {
	b.stopOnce.Do(func() { close(b.stopChan) })
	b.dumpGroup.Wait()

	if b.cfg.DumpPath != "" && b.db.IsValid {
		if err := b.db.DumpMemoryToDisk(); err != nil {
			b.log.Error("Final dump failed", "error", err)
		}
	}
	return b.db.Close()
}

// Dump writes the current database to DumpPath.
func (b *Backend) Dump() error {
	return b.db.DumpMemoryToDisk()
}

func (b *Backend) dumpLoop() {
	defer b.dumpGroup.Done()

	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			if err := b.db.DumpMemoryToDisk(); err != nil {
				b.log.Error("Error dumping to disk", "error", err)
			} else {
				b.log.Debug("Dumped to disk", "duration", time.Since(start))
			}
		}
	}
}
