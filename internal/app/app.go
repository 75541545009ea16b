// Package app wires configuration, storage, the syllabus and the services
// into one value shared by the server and the command line tool.
package app

import (
	"context"
	"fmt"

	"abacusisland/internal/config"
	"abacusisland/internal/logger"
	"abacusisland/internal/progress"
	"abacusisland/internal/service"
	"abacusisland/internal/storage"
	"abacusisland/internal/syllabus"
)

type App struct {
	Config   *config.Config
	Log      *logger.Logger
	KV       storage.KV
	Catalog  *syllabus.Catalog
	Store    *progress.Store
	Practice *service.PracticeService
	Backups  *service.BackupService
}

// LoadCatalog returns the built-in paths plus the one at path, if set
func LoadCatalog(path string) (*syllabus.Catalog, error) {
	if path == "" {
		return syllabus.Default()
	}
	extra, err := syllabus.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return syllabus.Default(extra)
}

// New opens storage, loads the syllabus and the saved progress
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...progress.Option) (*App, error) {
	catalog, err := LoadCatalog(cfg.SyllabusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load syllabus: %w", err)
	}
	log.Info("syllabus loaded", "paths", len(catalog.Paths()), "levels", len(catalog.Levels()))

	kv, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	opts = append([]progress.Option{progress.WithWriteTimeout(cfg.WriteTimeout)}, opts...)
	store := progress.New(kv, catalog, log, opts...)
	if err := store.Load(ctx); err != nil {
		kv.Close()
		return nil, err
	}

	return &App{
		Config:   cfg,
		Log:      log,
		KV:       kv,
		Catalog:  catalog,
		Store:    store,
		Practice: service.NewPracticeService(store, catalog, log),
		Backups:  service.NewBackupService(store, log),
	}, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.KV.Close()
}
