// Package search provides the in-memory inverted index over note content.
//
// The index is a cache: it is always reconstructable from the document store
// by re-tokenizing all non-encrypted notes, and it is safe to drop and
// rebuild at any time. It is owned exclusively by the note service.
package search

import (
	"sync"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/text"
)

// Index maps search terms to the set of note ids containing them. A reverse
// map from note id to its contributed terms makes removal O(terms) instead
// of a scan over the whole index.
type Index struct {
	mu       sync.RWMutex
	postings map[string]map[string]struct{} // term -> note ids
	docTerms map[string][]string            // note id -> distinct terms
}

// New creates an empty index.
func New() *Index {
	return &Index{
		postings: make(map[string]map[string]struct{}),
		docTerms: make(map[string][]string),
	}
}

// Add indexes a note's title and plaintext content. Encrypted notes and
// notes with empty content are never indexed: ciphertext must not be
// tokenized, so an encrypted note is only discoverable via non-text filters.
// Any previous entries for the note id are replaced.
func (ix *Index) Add(n models.Note) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.removeLocked(n.ID)

	if n.Encrypted || n.Content == "" {
		return
	}

	seen := make(map[string]struct{})
	var terms []string
	for _, term := range text.Tokenize(n.Title + " " + n.Content) {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)

		ids, ok := ix.postings[term]
		if !ok {
			ids = make(map[string]struct{})
			ix.postings[term] = ids
		}
		ids[n.ID] = struct{}{}
	}
	if len(terms) > 0 {
		ix.docTerms[n.ID] = terms
	}
}

// Remove deletes every entry associated with the note id.
func (ix *Index) Remove(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(id)
}

func (ix *Index) removeLocked(id string) {
	terms, ok := ix.docTerms[id]
	if !ok {
		return
	}
	for _, term := range terms {
		ids := ix.postings[term]
		delete(ids, id)
		if len(ids) == 0 {
			delete(ix.postings, term)
		}
	}
	delete(ix.docTerms, id)
}

// Rebuild clears the index and re-derives it from the given notes. The
// result is identical to incrementally adding the same notes one by one.
func (ix *Index) Rebuild(notes []models.Note) {
	ix.mu.Lock()
	ix.postings = make(map[string]map[string]struct{})
	ix.docTerms = make(map[string][]string)
	ix.mu.Unlock()

	for _, n := range notes {
		ix.Add(n)
	}
}

// Contains reports whether the note id is in the posting set for term.
func (ix *Index) Contains(term, id string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.postings[term][id]
	return ok
}

// Postings returns the ids of all notes containing term.
func (ix *Index) Postings(term string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	ids := make([]string, 0, len(ix.postings[term]))
	for id := range ix.postings[term] {
		ids = append(ids, id)
	}
	return ids
}

// Size returns the number of distinct indexed terms.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.postings)
}

// Terms returns the distinct terms contributed by the note id, or nil when
// the note is not indexed.
func (ix *Index) Terms(id string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	terms, ok := ix.docTerms[id]
	if !ok {
		return nil
	}
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}
