// Package localstore persists editor state on disk between runs: the
// document as a snapshot JSON file plus the cover-letter body. Writes are
// atomic (temp file then rename) so a crash mid-write never leaves a
// half-written document behind.
package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cv-builder/internal/model"
	"cv-builder/internal/telemetry"
)

const (
	documentFile = "document.json"
	letterFile   = "letter.txt"
)

// Store is a directory-backed persistence layer.
type Store struct {
	dir string
}

// New creates the data directory if needed and returns the store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: creating %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

// SaveDocument writes the document's snapshot to disk.
func (s *Store) SaveDocument(doc *model.Document) error {
	data, err := model.ExportSnapshot(doc)
	if err != nil {
		return fmt.Errorf("localstore: serializing document: %w", err)
	}
	return s.writeAtomic(documentFile, data)
}

// LoadDocument reads the persisted document. A missing file is not an
// error; the caller starts from a fresh document.
func (s *Store) LoadDocument() (*model.Document, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, documentFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localstore: reading document: %w", err)
	}
	doc, err := model.ImportSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("localstore: %w", err)
	}
	return doc, nil
}

// SaveLetter persists the cover-letter body.
func (s *Store) SaveLetter(body string) error {
	return s.writeAtomic(letterFile, []byte(body))
}

// LoadLetter reads the persisted letter body; missing means empty.
func (s *Store) LoadLetter() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, letterFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("localstore: reading letter: %w", err)
	}
	return string(data), nil
}

// Reset removes all persisted state.
func (s *Store) Reset() error {
	for _, name := range []string{documentFile, letterFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("localstore: removing %s: %w", name, err)
		}
	}
	return nil
}

// Subscriber adapts the store into a state-change subscriber. Persistence
// is a side effect after state settles, outside the mutation boundary, so
// failures are logged rather than returned.
func (s *Store) Subscriber() func(doc *model.Document, version uint64) {
	return func(doc *model.Document, version uint64) {
		if err := s.SaveDocument(doc); err != nil {
			telemetry.Error("persisting document failed", map[string]any{
				"error":   err.Error(),
				"version": version,
			})
		}
	}
}

func (s *Store) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("localstore: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("localstore: writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: replacing %s: %w", name, err)
	}
	return nil
}
