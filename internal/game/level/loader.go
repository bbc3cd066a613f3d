package level

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Level is a named board loaded from a level file.
type Level struct {
	// ID uniquely identifies this level.
	ID string
	// Name is the display name of the level.
	Name string
	// Grid is the initial board.
	Grid *Grid
	// ScriptDir is the path to Lua scripts for this level. Empty = no scripts.
	ScriptDir string
}

// Validate checks level invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (l *Level) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("level ID must not be empty")
	}
	if l.Name == "" {
		return fmt.Errorf("level %q: name must not be empty", l.ID)
	}
	if l.Grid == nil {
		return fmt.Errorf("level %q: board must not be empty", l.ID)
	}
	if n := len(l.Grid.Find(Human)); n != 1 {
		return fmt.Errorf("level %q: board must contain exactly one %q tile, found %d", l.ID, Human.Symbol(), n)
	}
	return nil
}

// yamlLevelFile is the top-level YAML structure for level files.
type yamlLevelFile struct {
	Level yamlLevel `yaml:"level"`
}

// yamlLevel is the YAML representation of a level. Exactly one of Rows and
// Code must be set.
type yamlLevel struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Rows      []string `yaml:"rows"`
	Code      string   `yaml:"code"`
	ScriptDir string   `yaml:"script_dir"`
}

// LoadLevelFromFile reads and validates a single level YAML file.
//
// Precondition: path must point to a valid YAML level file.
// Postcondition: Returns a validated Level or a non-nil error.
func LoadLevelFromFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level file %s: %w", path, err)
	}
	return LoadLevelFromBytes(data)
}

// LoadLevelFromBytes parses and validates a level from YAML bytes.
//
// Postcondition: Returns a validated Level or a non-nil error.
func LoadLevelFromBytes(data []byte) (*Level, error) {
	var file yamlLevelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing level YAML: %w", err)
	}

	lvl, err := convertYAMLLevel(file.Level)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", file.Level.ID, err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("validating level: %w", err)
	}
	return lvl, nil
}

// LoadLevelsFromDir loads all YAML files in a directory as levels.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns all validated levels in directory order or the first
// error encountered.
func LoadLevelsFromDir(dir string) ([]*Level, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading level directory %s: %w", dir, err)
	}

	var levels []*Level
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		lvl, err := LoadLevelFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading level from %s: %w", name, err)
		}
		if other, dup := seen[lvl.ID]; dup {
			return nil, fmt.Errorf("duplicate level ID %q in %s and %s", lvl.ID, other, name)
		}
		seen[lvl.ID] = name
		levels = append(levels, lvl)
	}

	if len(levels) == 0 {
		return nil, fmt.Errorf("no level files found in %s", dir)
	}
	return levels, nil
}

// convertYAMLLevel converts the parsed YAML structure into a Level.
func convertYAMLLevel(yl yamlLevel) (*Level, error) {
	var (
		grid *Grid
		err  error
	)
	switch {
	case len(yl.Rows) > 0 && yl.Code != "":
		return nil, fmt.Errorf("rows and code are mutually exclusive")
	case yl.Code != "":
		grid, err = Decode(strings.TrimSpace(yl.Code))
	case len(yl.Rows) > 0:
		grid, err = ParseRows(yl.Rows)
	default:
		return nil, fmt.Errorf("one of rows or code is required")
	}
	if err != nil {
		return nil, err
	}

	return &Level{
		ID:        yl.ID,
		Name:      yl.Name,
		Grid:      grid,
		ScriptDir: yl.ScriptDir,
	}, nil
}
