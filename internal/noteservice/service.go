// Package noteservice coordinates the document store, the search index, and
// the capability hooks behind a single call-and-result interface.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/cipher"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/search"
	"github.com/starford/laguz/internal/store"
	"github.com/starford/laguz/internal/text"
)

// Service is the note store facade. Mutations write through the document
// store and update the search index before the call returns: there is no
// consistency window between the two.
type Service struct {
	mu          sync.Mutex
	db          *store.DB
	idx         *search.Index
	cipher      cipher.Cipher
	notifier    Notifier
	initialized bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCipher sets the content transform provider.
func WithCipher(c cipher.Cipher) ServiceOption {
	return func(s *Service) { s.cipher = c }
}

// WithNotifier sets the mutation sync hook.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a Service around an open store. Call Initialize before
// any other operation.
func NewService(db *store.DB, opts ...ServiceOption) *Service {
	s := &Service{
		db:       db,
		idx:      search.New(),
		cipher:   cipher.Identity{},
		notifier: NopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize populates the search index from all stored notes. It is
// idempotent: only the first successful call has effect, and every other
// operation fails with apperr.ErrNotInitialized until it succeeds.
func (s *Service) Initialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := s.rebuildLocked(); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// rebuildLocked re-derives the index from the store. Encrypted notes are
// skipped inside the index itself.
func (s *Service) rebuildLocked() error {
	notes, err := s.db.AllNotes()
	if err != nil {
		return fmt.Errorf("noteservice: rebuild: %w", err)
	}
	s.idx.Rebuild(notes)
	return nil
}

func (s *Service) checkInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return apperr.ErrNotInitialized
	}
	return nil
}

// CreateNote assigns an id and timestamps, applies defaults, transforms
// content when the encrypted flag is set, persists and indexes the note,
// then notifies the sync hook. The returned record carries the content as
// given, pre-transform.
func (s *Service) CreateNote(_ context.Context, in CreateNoteInput) (*models.Note, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note := models.Note{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Content:       in.Content,
		Tags:          in.Tags,
		OpportunityID: in.OpportunityID,
		WorkflowID:    in.WorkflowID,
		TaskID:        in.TaskID,
		Encrypted:     in.Encrypted,
		Metadata:      in.Metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if note.Title == "" {
		note.Title = text.DeriveTitle(note.Content)
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}

	stored := note
	if note.Encrypted {
		encoded, err := s.cipher.Transform(note.Content)
		if err != nil {
			return nil, fmt.Errorf("noteservice: transform content: %w", err)
		}
		stored.Content = encoded
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.InsertNote(stored); err != nil {
		return nil, err
	}
	s.idx.Add(note)
	s.notifier.NoteChanged(OpCreate, note)
	return &note, nil
}

// GetNote returns the note for id with plaintext content: encrypted records
// are inverted before being returned, and an inversion failure is an error,
// never silently returned ciphertext.
func (s *Service) GetNote(_ context.Context, id string) (*models.Note, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}
	n, err := s.db.GetNote(id)
	if err != nil {
		return nil, err
	}
	return s.decrypt(n)
}

// UpdateNote merges the partial update into the stored record, re-stamps the
// update time, re-transforms content if needed, and re-indexes.
func (s *Service) UpdateNote(_ context.Context, id string, in UpdateNoteInput) (*models.Note, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.db.GetNote(id)
	if err != nil {
		return nil, err
	}

	// Recover the current plaintext: merging and re-indexing always operate
	// on plaintext, regardless of how the record is stored.
	plain := current.Content
	if in.Content != nil {
		plain = *in.Content
	} else if current.Encrypted {
		plain, err = s.cipher.Invert(current.Content)
		if err != nil {
			return nil, fmt.Errorf("noteservice: invert content: %w", err)
		}
	}

	note := *current
	note.Content = plain
	if in.Title != nil {
		note.Title = *in.Title
	}
	if in.Tags != nil {
		note.Tags = in.Tags
	}
	if in.OpportunityID != nil {
		note.OpportunityID = *in.OpportunityID
	}
	if in.WorkflowID != nil {
		note.WorkflowID = *in.WorkflowID
	}
	if in.TaskID != nil {
		note.TaskID = *in.TaskID
	}
	if in.Encrypted != nil {
		note.Encrypted = *in.Encrypted
	}
	if in.Metadata != nil {
		note.Metadata = in.Metadata
	}
	note.UpdatedAt = time.Now().UTC()

	stored := note
	if note.Encrypted {
		encoded, err := s.cipher.Transform(plain)
		if err != nil {
			return nil, fmt.Errorf("noteservice: transform content: %w", err)
		}
		stored.Content = encoded
	}

	if err := s.db.UpdateNote(stored); err != nil {
		return nil, err
	}
	s.idx.Add(note)
	s.notifier.NoteChanged(OpUpdate, note)
	return &note, nil
}

// DeleteNote removes the note and purges its index entries, reporting
// whether a record existed.
func (s *Service) DeleteNote(_ context.Context, id string) (bool, error) {
	if err := s.checkInitialized(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.db.GetNote(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	existed, err := s.db.DeleteNote(id)
	if err != nil {
		return false, err
	}
	if existed {
		s.idx.Remove(id)
		s.notifier.NoteChanged(OpDelete, *existing)
	}
	return existed, nil
}

// Stats returns a read-only diagnostic snapshot.
func (s *Service) Stats(_ context.Context) (*models.Stats, error) {
	total, encrypted, err := s.db.NoteCounts()
	if err != nil {
		return nil, err
	}
	tags, err := s.db.DistinctTagCount()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	initialized := s.initialized
	s.mu.Unlock()
	return &models.Stats{
		TotalNotes:      total,
		EncryptedNotes:  encrypted,
		TotalTags:       tags,
		SearchIndexSize: s.idx.Size(),
		Initialized:     initialized,
	}, nil
}

// CreateOpportunity persists a new opportunity record.
func (s *Service) CreateOpportunity(_ context.Context, in CreateOpportunityInput) (*models.Opportunity, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := models.Opportunity{
		ID:          "opp-" + uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Tags:        in.Tags,
		Metadata:    in.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if o.Status == "" {
		o.Status = models.OpportunityOpen
	}
	if o.Tags == nil {
		o.Tags = []string{}
	}
	if err := s.db.InsertOpportunity(o); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOpportunity returns the opportunity for id.
func (s *Service) GetOpportunity(_ context.Context, id string) (*models.Opportunity, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}
	return s.db.GetOpportunity(id)
}

// ListOpportunities returns opportunities matching the filter, newest first.
func (s *Service) ListOpportunities(_ context.Context, f store.OpportunityFilter) ([]models.Opportunity, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}
	return s.db.ListOpportunities(f)
}

// UpdateOpportunityStatus changes an opportunity's status.
func (s *Service) UpdateOpportunityStatus(_ context.Context, id, status string) error {
	if err := s.checkInitialized(); err != nil {
		return err
	}
	if status != models.OpportunityOpen && status != models.OpportunityWon &&
		status != models.OpportunityLost && status != models.OpportunityClosed {
		return fmt.Errorf("%w: invalid status %q", apperr.ErrValidation, status)
	}
	return s.db.UpdateOpportunityStatus(id, status)
}

// decrypt inverts a note's content in place when the record is encrypted.
func (s *Service) decrypt(n *models.Note) (*models.Note, error) {
	if !n.Encrypted {
		return n, nil
	}
	plain, err := s.cipher.Invert(n.Content)
	if err != nil {
		return nil, fmt.Errorf("noteservice: invert content: %w", err)
	}
	n.Content = plain
	return n, nil
}
