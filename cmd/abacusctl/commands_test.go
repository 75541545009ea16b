package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"abacusisland/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	syllabusPath, verbose = "", false
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func useTempStorage(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "abacus.db")
	t.Setenv("STORAGE_TYPE", "sqlite")
	t.Setenv("DB_PATH", dbPath)
	t.Setenv("SYLLABUS_PATH", "")
	return dbPath
}

func TestLevelsCommand(t *testing.T) {
	out, err := run(t, "levels", "--path", "senior")
	require.NoError(t, err)
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "senior")
	assert.NotContains(t, out, "junior")
}

func TestProblemCommand(t *testing.T) {
	out, err := run(t, "problem", "1", "10", "-n", "3")
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(out, "\n"), out)
	assert.Contains(t, out, "#10 ")
	assert.Contains(t, out, "#12 ")

	again, err := run(t, "problem", "1", "10", "-n", "3")
	require.NoError(t, err)
	assert.Equal(t, out, again)

	_, err = run(t, "problem", "1", "0")
	assert.Error(t, err)
	_, err = run(t, "problem", "404", "1")
	assert.Error(t, err)
}

func TestBoardCommand(t *testing.T) {
	out, err := run(t, "board", "72", "-c", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "● │", lines[0])
	assert.Equal(t, "7 2", lines[6])

	_, err = run(t, "board", "5", "-c", "0")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`name: extra
title: Extra
levels:
  - id: 80
    title: Extra
    operations: [addition]
    digit_range: [1, 1]
    stages:
      - { name: All, operations: [addition], range: [1, 100] }
`), 0o600))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`name: bad
levels:
  - id: 81
    title: Bad
    operations: [addition]
    digit_range: [1, 1]
    stages:
      - { name: Half, operations: [addition], range: [1, 50] }
`), 0o600))

	out, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+good)

	out, err = run(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL "+bad)
	assert.Contains(t, out, "not covered")
}

func TestExportImportReset(t *testing.T) {
	useTempStorage(t)
	ctx := context.Background()

	a, err := openApp(ctx)
	require.NoError(t, err)
	_, err = a.Store.RecordCompletion(ctx, 3, 14, models.ModeVisual, true)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	backup := filepath.Join(t.TempDir(), "nested", "backup.json")
	out, err := run(t, "export", "-o", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported backup")
	assert.FileExists(t, backup)

	_, err = run(t, "reset")
	assert.Error(t, err, "reset needs --yes")
	out, err = run(t, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "reset")

	a, err = openApp(ctx)
	require.NoError(t, err)
	assert.False(t, a.Store.IsCompleted(3, 14))
	require.NoError(t, a.Close())

	out, err = run(t, "import", "-i", backup, "--replace")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported backup")

	a, err = openApp(ctx)
	require.NoError(t, err)
	defer a.Close()
	assert.True(t, a.Store.IsCompleted(3, 14))

	_, err = run(t, "import")
	assert.Error(t, err)
}
