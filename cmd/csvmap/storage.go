package main

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/OCAP2/csvmap/internal/config"
	"github.com/OCAP2/csvmap/internal/storage"
	"github.com/OCAP2/csvmap/internal/storage/memory"
	pgstorage "github.com/OCAP2/csvmap/internal/storage/postgres"
	sqlitestorage "github.com/OCAP2/csvmap/internal/storage/sqlite"
)

func createStorageBackend(storageCfg config.StorageConfig, log *slog.Logger, zlog func(component string) zerolog.Logger) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		backend, err := pgstorage.New(config.GetDBConfig(), log, zlog("database"))
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres backend: %w", err)
		}
		log.Info("Postgres storage backend initialized")
		return backend, nil

	case "sqlite":
		backend, err := sqlitestorage.New(storageCfg.SQLite, log, zlog("database"))
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		log.Info("SQLite storage backend initialized", "dumpPath", storageCfg.SQLite.DumpPath)
		return backend, nil

	case "memory", "":
		log.Info("Memory storage backend initialized", "exportGeoJSON", storageCfg.Memory.ExportGeoJSON)
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}
