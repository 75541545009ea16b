package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"abacusisland/internal/config"
	"abacusisland/internal/logger"
	"abacusisland/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const extraPath = `name: custom
title: Custom Path
levels:
  - id: 90
    title: Custom
    operations: [addition]
    digit_range: [1, 1]
    stages:
      - { name: All, operations: [addition], range: [1, 100] }
`

func TestNewPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StorageType:  config.StorageSQLite,
		DatabasePath: filepath.Join(t.TempDir(), "abacus.db"),
	}

	first, err := New(ctx, cfg, logger.NewNop())
	require.NoError(t, err)
	_, err = first.Store.RecordCompletion(ctx, 1, 9, models.ModeVisual, true)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg, logger.NewNop())
	require.NoError(t, err)
	defer second.Close()
	assert.True(t, second.Store.IsCompleted(1, 9))
}

func TestLoadCatalogWithExtraPath(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(extraPath), 0o600))

	catalog, err := LoadCatalog(filename)
	require.NoError(t, err)
	_, ok := catalog.Level(90)
	assert.True(t, ok)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewMemory(t *testing.T) {
	a, err := New(context.Background(), &config.Config{StorageType: config.StorageMemory}, logger.NewNop())
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.Practice)
	assert.Equal(t, len(a.Catalog.Levels()), 23)
}
