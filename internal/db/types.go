package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-extractor/internal/types"
)

// Run represents an extraction run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// StoredResult is one persisted (document, model) outcome within a run
type StoredResult struct {
	DocumentID string            `json:"document_id"`
	Model      string            `json:"model"`
	Result     types.ModelResult `json:"result"`
}
