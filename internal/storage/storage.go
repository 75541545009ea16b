// Package storage is the key-value persistence boundary. Values are opaque
// strings, JSON in practice.
package storage

import (
	"context"
	"fmt"
	"strings"

	"abacusisland/internal/config"
	"abacusisland/internal/database"
	"abacusisland/internal/logger"
)

// Keys written by the progress store
const (
	KeyProgress     = "progress"
	KeyDailyLogs    = "daily_logs"
	KeyCompletions  = "completions"
	KeyCoins        = "coins"
	KeyStreak       = "streak"
	KeyMasterSeed   = "master_seed"
	KeyLearningPath = "learning_path"
	KeyNextProblem  = "next_problem"
)

// KV is an asynchronous string key-value store. Get reports a missing key
// with ok set to false and a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
	// SetMany writes every pair in one atomic operation
	SetMany(ctx context.Context, values map[string]string) error
	// Replace atomically clears the store and writes values
	Replace(ctx context.Context, values map[string]string) error
	Close() error
}

// Open builds the backend named by cfg.StorageType
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (KV, error) {
	switch strings.ToLower(cfg.StorageType) {
	case config.StorageMemory:
		log.Info("using in-memory storage")
		return NewMemoryStore(), nil

	case config.StorageRedis:
		client, err := NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("using redis storage", "addr", cfg.RedisAddr, "db", cfg.RedisDB, "prefix", cfg.RedisPrefix)
		return NewRedisStore(client, cfg.RedisPrefix), nil
	}

	db, err := database.InitializeWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageType, err)
	}
	applied, err := db.RunMigrations(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s storage: %w", cfg.StorageType, err)
	}
	for _, name := range applied {
		log.Info("migration completed", "file", name)
	}
	log.Info("using sql storage", "driver", db.Dialect.DriverName())
	return NewSQLStore(db), nil
}
