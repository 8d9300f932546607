package api

import (
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/noteservice"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Tags          []string       `json:"tags"`
	OpportunityID string         `json:"opportunity_id"`
	WorkflowID    string         `json:"workflow_id"`
	TaskID        string         `json:"task_id"`
	Encrypted     bool           `json:"encrypted"`
	Metadata      map[string]any `json:"metadata"`
}

// UpdateNoteRequest is the request body for updating a note. Absent fields
// are left unchanged.
type UpdateNoteRequest struct {
	Title         *string        `json:"title"`
	Content       *string        `json:"content"`
	Tags          []string       `json:"tags"`
	OpportunityID *string        `json:"opportunity_id"`
	WorkflowID    *string        `json:"workflow_id"`
	TaskID        *string        `json:"task_id"`
	Encrypted     *bool          `json:"encrypted"`
	Metadata      map[string]any `json:"metadata"`
}

// CreateOpportunityRequest is the request body for creating an opportunity.
type CreateOpportunityRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`
}

// UpdateOpportunityStatusRequest is the request body for a status change.
type UpdateOpportunityStatusRequest struct {
	Status string `json:"status"`
}

// AnalyzeRequest is the request body for content analysis.
type AnalyzeRequest struct {
	Content string `json:"content"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes"`
	Total int           `json:"total"`
}

// SearchResponse wraps ranked search results.
type SearchResponse struct {
	Results []noteservice.SearchResult `json:"results"`
}

// OpportunityListResponse wraps opportunity listings.
type OpportunityListResponse struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	Total         int                  `json:"total"`
}
