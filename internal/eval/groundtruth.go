package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jonathan/cv-extractor/internal/schemas"
	"github.com/jonathan/cv-extractor/internal/types"
)

// GroundTruthCache is the process-wide read-only cache of ground truth
// records, keyed by document identifier. Records are loaded once and only
// replaced on an explicit Reload; concurrent reads are safe.
type GroundTruthCache struct {
	dir string

	mu      sync.RWMutex
	records map[string]*types.GroundTruthRecord
}

// NewGroundTruthCache creates a cache over the given directory. Call Load
// before first use.
func NewGroundTruthCache(dir string) *GroundTruthCache {
	return &GroundTruthCache{dir: dir}
}

// Load reads every *.json file in the directory. A record keys on its
// explicit "id" field when present, otherwise on the filename stem. Files
// that fail schema validation are rejected with an error naming the file.
func (c *GroundTruthCache) Load() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read ground truth directory %s: %w", c.dir, err)
	}

	records := make(map[string]*types.GroundTruthRecord)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(c.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read ground truth file %s: %w", path, err)
		}
		if err := schemas.ValidateGroundTruthJSON(string(data)); err != nil {
			return fmt.Errorf("invalid ground truth file %s: %w", path, err)
		}

		var record types.GroundTruthRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("failed to parse ground truth file %s: %w", path, err)
		}
		record.EnsureDefaults()

		key := record.ID
		if key == "" {
			key = strings.TrimSuffix(entry.Name(), ".json")
		}
		records[key] = &record
	}

	c.mu.Lock()
	c.records = records
	c.mu.Unlock()
	return nil
}

// Reload re-reads the directory, atomically replacing the cached records.
func (c *GroundTruthCache) Reload() error {
	return c.Load()
}

// Get returns the ground truth for a document, or GroundTruthMissingError.
func (c *GroundTruthCache) Get(docID string) (*types.GroundTruthRecord, error) {
	c.mu.RLock()
	record, ok := c.records[docID]
	c.mu.RUnlock()

	if !ok {
		return nil, &GroundTruthMissingError{DocumentID: docID}
	}
	return record, nil
}

// Len reports how many ground truth records are loaded.
func (c *GroundTruthCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
