package noteservice

import (
	"context"
	"sort"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/store"
	"github.com/starford/laguz/internal/text"
)

// SearchResult is one ranked hit.
type SearchResult struct {
	Note  models.Note `json:"note"`
	Score int         `json:"score"`
}

// Search tokenizes the query, looks up each term in the inverted index, and
// ranks the matching notes. Every query term instance whose posting set
// contains a note adds one point to that note's score, so repeated query
// terms act as additive multipliers. Notes with score zero are excluded, as
// are empty queries and queries carrying only sub-length terms. Results are
// ordered by descending score, ties broken by most recent update.
func (s *Service) Search(_ context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}

	terms := text.QueryTerms(query)
	if len(terms) == 0 {
		return []SearchResult{}, nil
	}

	scores := make(map[string]int)
	for _, term := range terms {
		for _, id := range s.idx.Postings(term) {
			scores[id]++
		}
	}

	results := make([]SearchResult, 0, len(scores))
	for id, score := range scores {
		n, err := s.db.GetNote(id)
		if err != nil {
			// The index is a cache; a note deleted out from under a hit is
			// treated as a miss rather than a failure.
			continue
		}
		if n.Encrypted {
			// A stale posting can point at a note encrypted since the index
			// was consulted. Ciphertext must never surface as a hit.
			continue
		}
		if !matchesSearch(*n, opts) {
			continue
		}
		results = append(results, SearchResult{Note: *n, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].Note.UpdatedAt.Equal(results[j].Note.UpdatedAt) {
			return results[i].Note.UpdatedAt.After(results[j].Note.UpdatedAt)
		}
		return results[i].Note.ID < results[j].Note.ID
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// ListNotes returns notes matching the options without text scoring,
// ordered by update time descending (or creation time when requested).
// Encrypted content is inverted before being returned.
func (s *Service) ListNotes(_ context.Context, opts ListOptions) ([]models.Note, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}
	notes, err := s.db.ListNotes(store.NoteFilter{
		Tags:          opts.Tags,
		OpportunityID: opts.OpportunityID,
		WorkflowID:    opts.WorkflowID,
		TaskID:        opts.TaskID,
		Limit:         opts.Limit,
		ByCreated:     opts.ByCreated,
	})
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if _, err := s.decrypt(&notes[i]); err != nil {
			return nil, err
		}
	}
	return notes, nil
}

// matchesSearch applies the non-text filters. Tag comparison is
// case-sensitive with OR semantics.
func matchesSearch(n models.Note, opts SearchOptions) bool {
	if opts.OpportunityID != "" && n.OpportunityID != opts.OpportunityID {
		return false
	}
	if opts.Encrypted != nil && n.Encrypted != *opts.Encrypted {
		return false
	}
	if len(opts.Tags) == 0 {
		return true
	}
	for _, want := range opts.Tags {
		for _, have := range n.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}
