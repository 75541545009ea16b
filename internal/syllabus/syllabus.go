// Package syllabus loads and validates the level/stage tables that drive
// problem generation.
package syllabus

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"

	"abacusisland/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Built-in learning paths, in display order
var builtinPaths = []string{"junior", "senior", "english"}

// Path is a named, ordered list of levels
type Path struct {
	Name   string               `yaml:"name" json:"name" validate:"required"`
	Title  string               `yaml:"title" json:"title"`
	Levels []models.LevelConfig `yaml:"levels" json:"levels" validate:"min=1,dive"`
}

// Load decodes and validates a path from YAML
func Load(r io.Reader) (Path, error) {
	var p Path
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Path{}, fmt.Errorf("failed to decode syllabus: %w", err)
	}
	if err := ValidatePath(p); err != nil {
		return Path{}, err
	}
	return p, nil
}

// LoadFile reads a path from a YAML file
func LoadFile(filename string) (Path, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return Path{}, fmt.Errorf("failed to read syllabus file %s: %w", filename, err)
	}
	return Load(bytes.NewReader(content))
}

// Catalog indexes every level of a set of paths by id
type Catalog struct {
	paths  []Path
	levels map[int]models.LevelConfig
	pathOf map[int]string
}

// NewCatalog builds a catalog; level ids must be unique across paths
func NewCatalog(paths ...Path) (*Catalog, error) {
	c := &Catalog{
		levels: make(map[int]models.LevelConfig),
		pathOf: make(map[int]string),
	}
	for _, p := range paths {
		for _, level := range p.Levels {
			if other, dup := c.pathOf[level.ID]; dup {
				return nil, fmt.Errorf("level id %d appears in both %q and %q", level.ID, other, p.Name)
			}
			c.levels[level.ID] = level
			c.pathOf[level.ID] = p.Name
		}
		c.paths = append(c.paths, p)
	}
	return c, nil
}

// Default returns the built-in junior, senior and english paths followed by extra
func Default(extra ...Path) (*Catalog, error) {
	paths := make([]Path, 0, len(builtinPaths))
	for _, name := range builtinPaths {
		content, err := dataFS.ReadFile("data/" + name + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read built-in syllabus %s: %w", name, err)
		}
		p, err := Load(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("built-in syllabus %s: %w", name, err)
		}
		paths = append(paths, p)
	}
	return NewCatalog(append(paths, extra...)...)
}

// Paths returns the paths in catalog order
func (c *Catalog) Paths() []Path {
	return c.paths
}

// Path looks up a path by name
func (c *Catalog) Path(name string) (Path, bool) {
	for _, p := range c.paths {
		if p.Name == name {
			return p, true
		}
	}
	return Path{}, false
}

// Level looks up a level by id
func (c *Catalog) Level(id int) (models.LevelConfig, bool) {
	level, ok := c.levels[id]
	return level, ok
}

// Levels returns every level in path order
func (c *Catalog) Levels() []models.LevelConfig {
	var out []models.LevelConfig
	for _, p := range c.paths {
		out = append(out, p.Levels...)
	}
	return out
}

// PathOf returns the name of the path that owns a level
func (c *Catalog) PathOf(levelID int) string {
	return c.pathOf[levelID]
}

// Stage returns a level's stage by position
func (c *Catalog) Stage(levelID, stageIndex int) (models.StageConfig, bool) {
	level, ok := c.levels[levelID]
	if !ok || stageIndex < 0 || stageIndex >= len(level.Stages) {
		return models.StageConfig{}, false
	}
	return level.Stages[stageIndex], true
}

// StageFor returns the stage containing index and its position. Indices no
// stage covers fall back to the first stage; a level without stages yields -1.
func StageFor(level models.LevelConfig, index int) (int, models.StageConfig) {
	if i := level.StageIndexFor(index); i >= 0 {
		return i, level.Stages[i]
	}
	if len(level.Stages) == 0 {
		return -1, models.StageConfig{}
	}
	return 0, level.Stages[0]
}
