package syllabus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"abacusisland/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	require.Len(t, catalog.Paths(), 3)
	assert.Len(t, catalog.Levels(), 11+8+4)

	for _, name := range []string{"junior", "senior", "english"} {
		_, ok := catalog.Path(name)
		assert.True(t, ok, name)
	}
	_, ok := catalog.Path("unknown")
	assert.False(t, ok)

	level, ok := catalog.Level(7)
	require.True(t, ok)
	assert.Equal(t, "junior", catalog.PathOf(7))
	assert.Equal(t, models.MulIntermediate, level.MultiplicationTier)

	assert.Equal(t, "senior", catalog.PathOf(21))
	assert.Equal(t, "english", catalog.PathOf(31))
	assert.Equal(t, "", catalog.PathOf(500))

	_, ok = catalog.Level(500)
	assert.False(t, ok)
}

func TestDefaultStagesPartitionIndices(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	for _, level := range catalog.Levels() {
		assert.NoError(t, CheckPartition(level.Stages), "level %d", level.ID)
		for index := models.FirstIndex; index <= models.LastIndex; index++ {
			assert.GreaterOrEqual(t, level.StageIndexFor(index), 0, "level %d index %d", level.ID, index)
		}
	}
}

func TestEnglishLevelsCarryContent(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	english, ok := catalog.Path("english")
	require.True(t, ok)
	for _, level := range english.Levels {
		assert.NotEmpty(t, level.Content, "level %d", level.ID)
		for _, row := range level.Content {
			assert.NotEmpty(t, row.Question)
			assert.NotEmpty(t, row.Answer)
		}
	}
}

func TestCatalogStage(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	stage, ok := catalog.Stage(1, 0)
	require.True(t, ok)
	assert.Equal(t, [2]int{1, 25}, stage.Range)

	_, ok = catalog.Stage(1, 99)
	assert.False(t, ok)
	_, ok = catalog.Stage(1, -1)
	assert.False(t, ok)
}

func TestStageFor(t *testing.T) {
	level := models.LevelConfig{
		Stages: []models.StageConfig{
			{Name: "A", Range: [2]int{1, 50}},
			{Name: "B", Range: [2]int{51, 100}},
		},
	}

	i, stage := StageFor(level, 51)
	assert.Equal(t, 1, i)
	assert.Equal(t, "B", stage.Name)

	i, stage = StageFor(level, 500)
	assert.Equal(t, 0, i)
	assert.Equal(t, "A", stage.Name)

	i, _ = StageFor(models.LevelConfig{}, 1)
	assert.Equal(t, -1, i)
}

func TestCheckPartition(t *testing.T) {
	stage := func(lo, hi int) models.StageConfig {
		return models.StageConfig{Name: "s", Range: [2]int{lo, hi}}
	}

	tests := []struct {
		name    string
		stages  []models.StageConfig
		wantErr string
	}{
		{"exact", []models.StageConfig{stage(1, 40), stage(41, 100)}, ""},
		{"gap", []models.StageConfig{stage(1, 40), stage(42, 100)}, "index 41 is not covered"},
		{"overlap", []models.StageConfig{stage(1, 41), stage(41, 100)}, "index 41 is covered by 2"},
		{"short", []models.StageConfig{stage(1, 99)}, "index 100 is not covered"},
		{"out of bounds", []models.StageConfig{stage(0, 100)}, "invalid range"},
		{"reversed", []models.StageConfig{stage(60, 50)}, "invalid range"},
		{"empty", nil, "index 1 is not covered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPartition(tt.stages)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

const validPath = `
name: custom
title: Custom Path
levels:
  - id: 70
    title: Custom
    operations: [addition, subtraction]
    digit_range: [1, 2]
    stages:
      - { name: Add, operations: [addition], range: [1, 50] }
      - { name: Sub, operations: [subtraction], range: [51, 100] }
`

func TestLoad(t *testing.T) {
	p, err := Load(strings.NewReader(validPath))
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name)
	require.Len(t, p.Levels, 1)
	assert.Equal(t, 70, p.Levels[0].ID)
}

func TestLoadRejectsInvalidSyllabi(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr string
	}{
		{"unknown operation", "[addition, subtraction]", "[addition, juggling]", "operation"},
		{"stage operation outside level", "operations: [subtraction]", "operations: [multiplication]", "does not allow"},
		{"gap", "range: [51, 100]", "range: [52, 100]", "index 51 is not covered"},
		{"digit range", "digit_range: [1, 2]", "digit_range: [0, 2]", "digit range"},
		{"unknown field", "title: Custom\n", "title: Custom\n    colour: red\n", "colour"},
		{"empty stage operations", "operations: [addition], range", "operations: [], range", "no operations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.Replace(validPath, tt.from, tt.to, 1)
			require.NotEqual(t, validPath, src)
			_, err := Load(strings.NewReader(src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePathDuplicateIDs(t *testing.T) {
	p, err := Load(strings.NewReader(validPath))
	require.NoError(t, err)

	p.Levels = append(p.Levels, p.Levels[0])
	err = ValidatePath(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate level id 70")
}

func TestNewCatalogDuplicateIDs(t *testing.T) {
	p, err := Load(strings.NewReader(validPath))
	require.NoError(t, err)

	other := p
	other.Name = "other"
	_, err = NewCatalog(p, other)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level id 70")
}

func TestLoadFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(validPath), 0o600))

	p, err := LoadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "Custom Path", p.Title)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultWithExtraPath(t *testing.T) {
	p, err := Load(strings.NewReader(validPath))
	require.NoError(t, err)

	catalog, err := Default(p)
	require.NoError(t, err)
	assert.Len(t, catalog.Paths(), 4)
	assert.Equal(t, "custom", catalog.PathOf(70))

	_, ok := catalog.Level(70)
	assert.True(t, ok)
}
