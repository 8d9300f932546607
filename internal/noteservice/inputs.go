package noteservice

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

// CreateNoteInput carries the caller-supplied fields for a new note.
// Title is derived from content when empty; tags default to an empty set.
type CreateNoteInput struct {
	Title         string
	Content       string
	Tags          []string
	OpportunityID string
	WorkflowID    string
	TaskID        string
	Encrypted     bool
	Metadata      map[string]any
}

// Validate checks the caller contract for note creation.
func (in *CreateNoteInput) Validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Length(0, 200)),
		validation.Field(&in.Tags, validation.Each(validation.Required, validation.Length(1, 64))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}

// UpdateNoteInput carries a partial note update. Nil fields are left
// unchanged; non-nil fields replace the stored value.
type UpdateNoteInput struct {
	Title         *string
	Content       *string
	Tags          []string // nil keeps existing tags
	OpportunityID *string
	WorkflowID    *string
	TaskID        *string
	Encrypted     *bool
	Metadata      map[string]any // nil keeps existing metadata
}

// Validate checks the caller contract for note updates.
func (in *UpdateNoteInput) Validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Length(0, 200)),
		validation.Field(&in.Tags, validation.Each(validation.Required, validation.Length(1, 64))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}

// CreateOpportunityInput carries the caller-supplied fields for a new
// opportunity.
type CreateOpportunityInput struct {
	Title       string
	Description string
	Status      string
	Tags        []string
	Metadata    map[string]any
}

// Validate checks the caller contract for opportunity creation.
func (in *CreateOpportunityInput) Validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Status, validation.In(
			models.OpportunityOpen, models.OpportunityWon,
			models.OpportunityLost, models.OpportunityClosed)),
		validation.Field(&in.Tags, validation.Each(validation.Required, validation.Length(1, 64))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}

// ListOptions narrows and orders non-text listings.
type ListOptions struct {
	Tags          []string
	OpportunityID string
	WorkflowID    string
	TaskID        string
	Limit         int
	// ByCreated sorts by the store's creation-time index instead of the
	// default update-time ordering.
	ByCreated bool
}

// SearchOptions filters ranked text queries.
type SearchOptions struct {
	Tags          []string
	OpportunityID string
	// Encrypted filters on the encrypted flag when non-nil. Encrypted notes
	// are never indexed, so search can only ever surface them as absent.
	Encrypted *bool
	Limit     int
}
