// Package store provides the filesystem-backed persistence for extracted
// text and per-(document, model) JSON results. Writes use a write-to-temp
// then rename discipline so concurrent evaluation passes never observe a
// partial file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Layout under the store root.
const (
	textDir    = "text"
	resultsDir = "results"
)

// Store addresses cached text and results by document identifier.
type Store struct {
	root string
}

// New creates the store rooted at dir, creating the layout if needed.
func New(root string) (*Store, error) {
	for _, sub := range []string{textDir, resultsDir} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &Store{root: root}, nil
}

var unsafeIDChars = regexp.MustCompile(`[^a-zA-Z0-9._\-]+`)

// DocumentID derives a stable identifier from a document path: the filename
// stem with unsafe characters replaced.
func DocumentID(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	id := unsafeIDChars.ReplaceAllString(stem, "_")
	if id == "" {
		id = "document"
	}
	return id
}

// SaveText caches extracted text for a document.
func (s *Store) SaveText(docID, text string) error {
	return s.atomicWrite(filepath.Join(s.root, textDir, docID+".txt"), []byte(text))
}

// LoadText returns previously cached text, or ok=false when absent.
func (s *Store) LoadText(docID string) (string, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.root, textDir, docID+".txt"))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached text: %w", err)
	}
	return string(data), true, nil
}

// SaveResult persists a JSON-serializable result under the
// (document, model) key. The write is atomic: temp file then rename.
func (s *Store) SaveResult(docID, modelID string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	return s.atomicWrite(s.resultPath(docID, modelID), data)
}

// LoadResult reads a previously saved result into v, or ok=false when absent.
func (s *Store) LoadResult(docID, modelID string, v any) (bool, error) {
	data, err := os.ReadFile(s.resultPath(docID, modelID))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read result: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse result: %w", err)
	}
	return true, nil
}

func (s *Store) resultPath(docID, modelID string) string {
	model := unsafeIDChars.ReplaceAllString(modelID, "_")
	return filepath.Join(s.root, resultsDir, fmt.Sprintf("%s__%s.json", docID, model))
}

// atomicWrite writes to a temp file in the target directory and renames it
// over the destination. Rename within one filesystem is atomic, so readers
// see either the old content or the new, never a partial write.
func (s *Store) atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
