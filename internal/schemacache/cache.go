// Package schemacache persists list schemas on disk, one JSON document per list.
// Writes are not transactional; concurrent processes race and the last writer wins.
package schemacache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/thenoetrevino/listctl/internal/config"
	"github.com/thenoetrevino/listctl/internal/models"
	"github.com/thenoetrevino/listctl/internal/schema"
)

// ErrInvalidListID is returned for list ids that cannot name a cache file
var ErrInvalidListID = errors.New("invalid list id")

// safeListID matches ids that can be used as a file name unchanged
var safeListID = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Store reads and writes cached schemas under BaseDir
type Store struct {
	BaseDir      string
	AppDir       string
	LegacyAppDir string
	Logger       *slog.Logger
}

// New creates a store rooted at the configured cache base
func New(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	base, err := cfg.BaseDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache base: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		BaseDir:      base,
		AppDir:       cfg.Cache.AppDir,
		LegacyAppDir: cfg.Cache.LegacyAppDir,
		Logger:       logger,
	}, nil
}

// Path returns the canonical cache file for listID
func (s *Store) Path(listID string) (string, error) {
	name, err := fileName(listID)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.BaseDir, s.AppDir, "schemas", name), nil
}

// LegacyPath returns the read-only cache file used by earlier releases
func (s *Store) LegacyPath(listID string) (string, error) {
	name, err := fileName(listID)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.BaseDir, s.LegacyAppDir, "schemas", name), nil
}

// Load returns the cached schema for listID, or nil when none is cached.
//
// A schema found only at the legacy location is upgraded: it is written to the
// canonical path so later loads never consult the legacy path again. A failed
// upgrade is logged and the legacy schema is still returned. Read failures
// other than absence propagate.
func (s *Store) Load(listID string) (*models.Schema, error) {
	path, err := s.Path(listID)
	if err != nil {
		return nil, err
	}

	cached, err := readSchema(path, listID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if s.LegacyAppDir == "" || s.LegacyAppDir == s.AppDir {
		return nil, nil
	}
	legacyPath, err := s.LegacyPath(listID)
	if err != nil {
		return nil, err
	}
	legacy, err := readSchema(legacyPath, listID)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.Save(listID, *legacy); err != nil {
		s.logger().Warn("failed to migrate legacy schema cache", "list_id", listID, "from", legacyPath, "error", err)
		return legacy, nil
	}
	s.logger().Info("migrated legacy schema cache", "list_id", listID, "from", legacyPath, "to", path)
	return legacy, nil
}

// Save writes schema to the canonical path, creating parent directories
func (s *Store) Save(listID string, sch models.Schema) error {
	path, err := s.Path(listID)
	if err != nil {
		return err
	}

	if sch.ListID == "" {
		sch.ListID = listID
	}
	if sch.Columns == nil {
		sch.Columns = []models.Column{}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(sch, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	// Write then rename so readers never observe a partial document
	tmp, err := os.CreateTemp(filepath.Dir(path), ".schema-*.json")
	if err != nil {
		return fmt.Errorf("failed to write schema cache: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write schema cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write schema cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write schema cache: %w", err)
	}

	s.logger().Debug("saved schema cache", "list_id", listID, "columns", len(sch.Columns), "path", path)
	return nil
}

// Update merges candidate into the cached schema (if any), saves, and returns
// the merged result. Cached column definitions win over candidate ones.
func (s *Store) Update(listID string, candidate models.Schema) (models.Schema, error) {
	existing, err := s.Load(listID)
	if err != nil {
		return models.Schema{}, err
	}

	merged := schema.Merge(existing, candidate)
	if merged.ListID == "" {
		merged.ListID = listID
	}
	if err := s.Save(listID, merged); err != nil {
		return models.Schema{}, err
	}
	return merged, nil
}

// Delete removes the canonical cache entry; a missing entry is not an error
func (s *Store) Delete(listID string) error {
	path, err := s.Path(listID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func readSchema(path, listID string) (*models.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sch, err := schema.NormalizeJSON(listID, data)
	if err != nil {
		return nil, fmt.Errorf("corrupt schema cache %s: %w", path, err)
	}
	return &sch, nil
}

func fileName(listID string) (string, error) {
	if !safeListID.MatchString(listID) || strings.Trim(listID, ".") == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidListID, listID)
	}
	return listID + ".json", nil
}
