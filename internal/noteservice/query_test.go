package noteservice

import (
	"context"
	"testing"
	"time"
)

// seedSearchNotes creates the three-note fixture used across the search
// tests. Small sleeps give each note a distinct update time for tie-breaks.
func seedSearchNotes(t *testing.T, svc *Service) (first, second, third string) {
	t.Helper()
	ctx := context.Background()

	a, err := svc.CreateNote(ctx, CreateNoteInput{
		Title:   "Alpha Report",
		Content: "the alpha launch went well",
		Tags:    []string{"work"},
	})
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	b, err := svc.CreateNote(ctx, CreateNoteInput{
		Title:   "Beta Notes",
		Content: "alpha and beta compared",
		Tags:    []string{"work", "draft"},
	})
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	c, err := svc.CreateNote(ctx, CreateNoteInput{
		Title:   "Shopping",
		Content: "gamma rays and groceries",
		Tags:    []string{"home"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return a.ID, b.ID, c.ID
}

func TestSearch_SingleTerm(t *testing.T) {
	svc := testService(t)
	_, _, third := seedSearchNotes(t, svc)

	hits, err := svc.Search(context.Background(), "gamma", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].Note.ID != third {
		t.Errorf("hit = %s, want the gamma note", hits[0].Note.ID)
	}
	if hits[0].Score != 1 {
		t.Errorf("score = %d, want 1", hits[0].Score)
	}
}

func TestSearch_RepeatedTermsAddUp(t *testing.T) {
	svc := testService(t)
	seedSearchNotes(t, svc)

	hits, err := svc.Search(context.Background(), "alpha alpha", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	for _, h := range hits {
		if h.Score != 2 {
			t.Errorf("score(%s) = %d, want 2", h.Note.Title, h.Score)
		}
	}
}

func TestSearch_MultiTermRanking(t *testing.T) {
	svc := testService(t)
	_, second, _ := seedSearchNotes(t, svc)

	// "alpha beta" scores 2 on the beta note, 1 on the alpha note.
	hits, err := svc.Search(context.Background(), "alpha beta", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].Note.ID != second || hits[0].Score != 2 {
		t.Errorf("top hit = %s score %d, want beta note score 2", hits[0].Note.ID, hits[0].Score)
	}
	if hits[1].Score != 1 {
		t.Errorf("second score = %d, want 1", hits[1].Score)
	}
}

func TestSearch_TieBrokenByRecency(t *testing.T) {
	svc := testService(t)
	_, second, _ := seedSearchNotes(t, svc)

	// Both alpha notes score 1; the later-updated one wins the tie.
	hits, err := svc.Search(context.Background(), "alpha", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].Note.ID != second {
		t.Errorf("top hit = %s, want most recently updated", hits[0].Note.ID)
	}
}

func TestSearch_EmptyAndShortQueries(t *testing.T) {
	svc := testService(t)
	seedSearchNotes(t, svc)
	ctx := context.Background()

	for _, q := range []string{"", "   ", "a in of"} {
		hits, err := svc.Search(ctx, q, SearchOptions{})
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(hits) != 0 {
			t.Errorf("Search(%q) = %d hits, want 0", q, len(hits))
		}
	}
}

func TestSearch_SkipsNoteEncryptedAfterIndexing(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	n, err := svc.CreateNote(ctx, CreateNoteInput{Content: "secretword inside"})
	if err != nil {
		t.Fatal(err)
	}

	// Flip the stored record to encrypted behind the index's back, leaving
	// the old posting in place. A hit resolving to an encrypted record must
	// be dropped rather than returned with its ciphertext.
	n.Encrypted = true
	n.Content = "ciphertext blob"
	if err := svc.db.UpdateNote(*n); err != nil {
		t.Fatal(err)
	}

	hits, err := svc.Search(ctx, "secretword", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %d, want 0 for a note encrypted since indexing", len(hits))
	}
}

func TestSearch_NoMatches(t *testing.T) {
	svc := testService(t)
	seedSearchNotes(t, svc)

	hits, err := svc.Search(context.Background(), "zebra", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %d, want 0", len(hits))
	}
}

func TestSearch_TagFilter(t *testing.T) {
	svc := testService(t)
	_, second, _ := seedSearchNotes(t, svc)

	hits, err := svc.Search(context.Background(), "alpha", SearchOptions{Tags: []string{"draft"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Note.ID != second {
		t.Errorf("hits = %v, want only the draft note", hits)
	}
}

func TestSearch_OpportunityFilter(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	tagged, err := svc.CreateNote(ctx, CreateNoteInput{
		Content:       "pricing discussion",
		OpportunityID: "opp-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateNote(ctx, CreateNoteInput{Content: "pricing elsewhere"}); err != nil {
		t.Fatal(err)
	}

	hits, err := svc.Search(ctx, "pricing", SearchOptions{OpportunityID: "opp-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Note.ID != tagged.ID {
		t.Errorf("hits = %v, want only the opp-1 note", hits)
	}
}

func TestSearch_Limit(t *testing.T) {
	svc := testService(t)
	seedSearchNotes(t, svc)

	hits, err := svc.Search(context.Background(), "alpha", SearchOptions{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Errorf("hits = %d, want 1", len(hits))
	}
}

func TestSearch_TitleTermsMatch(t *testing.T) {
	svc := testService(t)
	seedSearchNotes(t, svc)

	hits, err := svc.Search(context.Background(), "shopping", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Errorf("hits = %d, want 1 (title term)", len(hits))
	}
}

func TestListNotes_FiltersAndOrder(t *testing.T) {
	svc := testService(t)
	first, second, _ := seedSearchNotes(t, svc)
	ctx := context.Background()

	notes, err := svc.ListNotes(ctx, ListOptions{Tags: []string{"work"}})
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("len = %d, want 2", len(notes))
	}
	// Update-time descending: second was created later.
	if notes[0].ID != second || notes[1].ID != first {
		t.Errorf("order = [%s %s], want [second first]", notes[0].ID, notes[1].ID)
	}

	notes, err = svc.ListNotes(ctx, ListOptions{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 {
		t.Errorf("limited len = %d, want 1", len(notes))
	}
}
