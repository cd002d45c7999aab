// Package settings persists the small set of preferences that live outside
// the graph document: the recent file list, recent directories and UI
// toggles. Backed by a sqlite key-value store so the collaborator stays
// opaque to the rest of the application.
package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MaxRecentFiles bounds the recent file list.
const MaxRecentFiles = 8

// Well-known keys.
const (
	keyRecentFiles     = "recentFiles"
	keyRecentPath      = "recentPath"
	keyRecentImagePath = "recentImagePath"
	keyAutoload        = "autoload"
	keyAutosave        = "autosave"
	keyGridVisible     = "gridVisible"
	keyLanguage        = "language"
)

// Settings is a key-value preference store.
type Settings struct {
	db *sql.DB
}

// Open creates or opens the settings database under the given directory.
func Open(dir string) (*Settings, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	dbPath := filepath.Join(dir, "settings.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}

	s := &Settings{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize settings schema: %w", err)
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Settings) Close() error {
	return s.db.Close()
}

func (s *Settings) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (s *Settings) get(key, fallback string) string {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return fallback
	}
	return value
}

func (s *Settings) set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return nil
}

func (s *Settings) getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(s.get(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

// RecentFiles returns the recent file list, most recent first.
func (s *Settings) RecentFiles() []string {
	raw := s.get(keyRecentFiles, "")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

// RecentFile returns the most recently used file, if any.
func (s *Settings) RecentFile() (string, bool) {
	files := s.RecentFiles()
	if len(files) == 0 {
		return "", false
	}
	return files[0], true
}

// AddRecentFile moves the path to the front of the recent list, dropping the
// oldest entry past the bound.
func (s *Settings) AddRecentFile(path string) error {
	files := []string{path}
	for _, f := range s.RecentFiles() {
		if f != path {
			files = append(files, f)
		}
	}
	if len(files) > MaxRecentFiles {
		files = files[:MaxRecentFiles]
	}
	return s.set(keyRecentFiles, strings.Join(files, "\n"))
}

// RecentPath returns the directory offered by the open dialog.
func (s *Settings) RecentPath() string {
	return s.get(keyRecentPath, "")
}

// SetRecentPath remembers the directory of the last opened or saved file.
func (s *Settings) SetRecentPath(path string) error {
	return s.set(keyRecentPath, path)
}

// RecentImagePath returns the directory offered by the image dialog.
func (s *Settings) RecentImagePath() string {
	return s.get(keyRecentImagePath, "")
}

// SetRecentImagePath remembers the directory of the last attached image.
func (s *Settings) SetRecentImagePath(path string) error {
	return s.set(keyRecentImagePath, path)
}

// Autoload reports whether the most recent file opens automatically at
// launch.
func (s *Settings) Autoload() bool {
	return s.getBool(keyAutoload, false)
}

// SetAutoload toggles autoload.
func (s *Settings) SetAutoload(v bool) error {
	return s.set(keyAutoload, strconv.FormatBool(v))
}

// Autosave reports whether edits save automatically to the bound file.
func (s *Settings) Autosave() bool {
	return s.getBool(keyAutosave, false)
}

// SetAutosave toggles autosave.
func (s *Settings) SetAutosave(v bool) error {
	return s.set(keyAutosave, strconv.FormatBool(v))
}

// GridVisible reports whether the grid is drawn.
func (s *Settings) GridVisible() bool {
	return s.getBool(keyGridVisible, true)
}

// SetGridVisible toggles grid rendering.
func (s *Settings) SetGridVisible(v bool) error {
	return s.set(keyGridVisible, strconv.FormatBool(v))
}

// Language returns the stored UI language code, or "" for the default.
func (s *Settings) Language() string {
	return s.get(keyLanguage, "")
}

// SetLanguage stores the UI language code.
func (s *Settings) SetLanguage(code string) error {
	return s.set(keyLanguage, code)
}
