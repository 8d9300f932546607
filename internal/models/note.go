// Package models defines the domain types for Laguz.
package models

import "time"

// Note is the primary entity: a user-authored text record with tags and
// optional references to external workflow entities. When Encrypted is set
// the stored content is held in transformed form and is excluded from
// full-text indexing.
type Note struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Tags          []string       `json:"tags"`
	OpportunityID string         `json:"opportunity_id,omitempty"`
	WorkflowID    string         `json:"workflow_id,omitempty"`
	TaskID        string         `json:"task_id,omitempty"`
	Encrypted     bool           `json:"encrypted"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Opportunity is a lighter secondary entity that notes can reference.
// It is filterable by status and tags but not covered by full-text search.
type Opportunity struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	NoteCount   int            `json:"note_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Opportunity statuses.
const (
	OpportunityOpen   = "open"
	OpportunityWon    = "won"
	OpportunityLost   = "lost"
	OpportunityClosed = "closed"
)

// Stats is a read-only diagnostic snapshot of the store and its index.
type Stats struct {
	TotalNotes      int  `json:"total_notes"`
	EncryptedNotes  int  `json:"encrypted_notes"`
	TotalTags       int  `json:"total_tags"`
	SearchIndexSize int  `json:"search_index_size"`
	Initialized     bool `json:"initialized"`
}
