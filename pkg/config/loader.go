package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadFS walks fsys and parses every JSON/YAML file it finds. A container id
// defined twice, in one file or across files, is an error. A nil fsys yields
// an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{editors: make(map[string]EditorConfig)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile parses a single configuration file from disk.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse reads one JSON or YAML document. source names it in errors.
func Parse(data []byte, source string) (*Store, error) {
	store := &Store{editors: make(map[string]EditorConfig)}
	if err := store.add(data, source); err != nil {
		return nil, err
	}
	return store, nil
}

// Editor returns the settings for container id.
func (s *Store) Editor(id string) (EditorConfig, bool) {
	if s == nil {
		return EditorConfig{}, false
	}
	cfg, ok := s.editors[strings.TrimSpace(id)]
	return cfg, ok
}

// IDs returns the configured container ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.editors))
	for id := range s.editors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any settings.
func (s *Store) Empty() bool {
	return s == nil || len(s.editors) == 0
}

type documentFile struct {
	Editors map[string]EditorConfig `json:"editors" yaml:"editors"`
}

func (s *Store) add(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}
	for rawID, cfg := range doc.Editors {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("config: file %s defines an empty container id", source)
		}
		if _, exists := s.editors[id]; exists {
			return fmt.Errorf("config: duplicate container %q (file %s)", id, source)
		}
		normalised, err := normaliseEditor(cfg, id, source)
		if err != nil {
			return err
		}
		s.editors[id] = normalised
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("config: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

func normaliseEditor(cfg EditorConfig, id, source string) (EditorConfig, error) {
	cfg.Container = id
	cfg.Source = source
	cfg.ConfirmMessage = strings.TrimSpace(cfg.ConfirmMessage)

	raw := strings.TrimSpace(cfg.ShowHideDuration)
	if raw == "" {
		return cfg, nil
	}
	d, err := parseDuration(raw)
	if err != nil {
		return EditorConfig{}, fmt.Errorf("config: container %q (file %s) show_hide_duration: %w", id, source, err)
	}
	cfg.duration = d
	cfg.hasDuration = true
	return cfg, nil
}

// parseDuration accepts Go duration strings and bare integers, which are
// read as milliseconds.
func parseDuration(raw string) (time.Duration, error) {
	if ms, err := strconv.Atoi(raw); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative duration %q", raw)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", raw)
	}
	return d, nil
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
