// Package local implements document storage on the local filesystem.
package local

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"docharvester/internal/archive"
)

// Config captures the parameters for the local document store.
type Config struct {
	// BaseDir is the root directory where documents are stored.
	BaseDir string `mapstructure:"base_dir"`
}

// Store keeps one file per document under BaseDir. The filename is
// derived deterministically from the document URL so the existence
// probe and a later save always agree on the path.
type Store struct {
	baseDir string
}

// New validates BaseDir (creating it if absent) and returns a Store.
func New(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	info, err := os.Stat(cfg.BaseDir)
	switch {
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(cfg.BaseDir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("create base directory: %w", mkErr)
		}
	case err != nil:
		return nil, fmt.Errorf("stat base directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("base directory path is not a directory")
	}
	return &Store{baseDir: cfg.BaseDir}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileName maps a document URL to its storage filename. The query
// string is part of the identity: archives commonly serve distinct
// documents as doc.php?id=N, and the name must agree with the record
// store's full-URL key.
func FileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse document url: %w", err)
	}
	name := u.Host + u.Path
	if u.Path == "" || u.Path == "/" {
		name = u.Host + "_index"
	}
	if u.RawQuery != "" {
		name += "_" + u.RawQuery
	}
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "", fmt.Errorf("document url %q yields no usable filename", rawURL)
	}
	if path.Ext(name) == "" {
		name += ".bin"
	}
	return name, nil
}

// Exists reports whether a copy of the document is already on disk.
func (s *Store) Exists(_ context.Context, doc archive.Document) (bool, error) {
	full, err := s.pathFor(doc)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", full, err)
	}
	return true, nil
}

// Save writes the document payload and returns the full path. The
// payload is staged in a temp file and renamed so a crash mid-write
// never leaves a truncated file the existence probe would trust.
func (s *Store) Save(_ context.Context, doc archive.Document, data []byte) (string, error) {
	full, err := s.pathFor(doc)
	if err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(s.baseDir, ".partial-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("publish document: %w", err)
	}
	return full, nil
}

func (s *Store) pathFor(doc archive.Document) (string, error) {
	name, err := FileName(doc.URL)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.baseDir, name)

	// The sanitized name cannot escape baseDir, but keep the guard in
	// case the sanitizer changes.
	cleanBase := filepath.Clean(s.baseDir)
	if !strings.HasPrefix(filepath.Clean(full), cleanBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected for %q", doc.URL)
	}
	return full, nil
}
