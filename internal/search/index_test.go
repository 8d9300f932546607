package search

import (
	"sort"
	"testing"

	"github.com/starford/laguz/internal/models"
)

func note(id, title, content string) models.Note {
	return models.Note{ID: id, Title: title, Content: content}
}

func TestAddAndContains(t *testing.T) {
	ix := New()
	ix.Add(note("n1", "Alpha Report", "the alpha launch went well"))

	for _, term := range []string{"alpha", "report", "launch", "went", "well", "the"} {
		if !ix.Contains(term, "n1") {
			t.Errorf("Contains(%q, n1) = false, want true", term)
		}
	}
	if ix.Contains("beta", "n1") {
		t.Error("Contains(beta, n1) = true, want false")
	}
}

func TestAdd_SkipsEncrypted(t *testing.T) {
	ix := New()
	n := note("n1", "Secret", "gibberishciphertext")
	n.Encrypted = true
	ix.Add(n)

	if ix.Size() != 0 {
		t.Errorf("Size() = %d, want 0", ix.Size())
	}
	if ix.Terms("n1") != nil {
		t.Errorf("Terms(n1) = %v, want nil", ix.Terms("n1"))
	}
}

func TestAdd_SkipsEmptyContent(t *testing.T) {
	ix := New()
	ix.Add(note("n1", "Has A Title", ""))
	if ix.Size() != 0 {
		t.Errorf("Size() = %d, want 0", ix.Size())
	}
}

func TestAdd_ReplacesPreviousEntries(t *testing.T) {
	ix := New()
	ix.Add(note("n1", "", "alpha beta"))
	ix.Add(note("n1", "", "gamma delta"))

	if ix.Contains("alpha", "n1") || ix.Contains("beta", "n1") {
		t.Error("stale terms survived re-add")
	}
	if !ix.Contains("gamma", "n1") || !ix.Contains("delta", "n1") {
		t.Error("new terms missing after re-add")
	}
}

func TestAdd_EncryptedReAddPurges(t *testing.T) {
	ix := New()
	ix.Add(note("n1", "", "alpha beta"))

	n := note("n1", "", "ciphertext")
	n.Encrypted = true
	ix.Add(n)

	if ix.Contains("alpha", "n1") {
		t.Error("plaintext terms survived encryption")
	}
	if ix.Size() != 0 {
		t.Errorf("Size() = %d, want 0", ix.Size())
	}
}

func TestRemove(t *testing.T) {
	ix := New()
	ix.Add(note("n1", "", "alpha shared"))
	ix.Add(note("n2", "", "beta shared"))

	ix.Remove("n1")

	if ix.Contains("alpha", "n1") {
		t.Error("removed note still in postings")
	}
	if !ix.Contains("shared", "n2") {
		t.Error("removal disturbed another note's postings")
	}
	if got := ix.Postings("shared"); len(got) != 1 || got[0] != "n2" {
		t.Errorf("Postings(shared) = %v, want [n2]", got)
	}
	// alpha had only n1, so the term itself is gone.
	if got := ix.Postings("alpha"); len(got) != 0 {
		t.Errorf("Postings(alpha) = %v, want none", got)
	}
}

func TestRemove_Unknown(t *testing.T) {
	ix := New()
	ix.Add(note("n1", "", "alpha"))
	ix.Remove("missing")
	if !ix.Contains("alpha", "n1") {
		t.Error("removing unknown id disturbed the index")
	}
}

func TestRebuild_MatchesIncremental(t *testing.T) {
	notes := []models.Note{
		note("n1", "First", "alpha beta gamma"),
		note("n2", "Second", "beta delta"),
		note("n3", "Third", ""),
	}
	notes[2].Encrypted = true

	incremental := New()
	for _, n := range notes {
		incremental.Add(n)
	}
	rebuilt := New()
	rebuilt.Add(note("stale", "", "leftover junk"))
	rebuilt.Rebuild(notes)

	if incremental.Size() != rebuilt.Size() {
		t.Fatalf("size mismatch: incremental %d, rebuilt %d", incremental.Size(), rebuilt.Size())
	}
	for _, term := range []string{"first", "alpha", "beta", "gamma", "second", "delta"} {
		a, b := incremental.Postings(term), rebuilt.Postings(term)
		sort.Strings(a)
		sort.Strings(b)
		if len(a) != len(b) {
			t.Errorf("postings(%q): incremental %v, rebuilt %v", term, a, b)
			continue
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("postings(%q): incremental %v, rebuilt %v", term, a, b)
				break
			}
		}
	}
	if rebuilt.Contains("leftover", "stale") {
		t.Error("rebuild kept pre-existing entries")
	}
}

func TestSize_DistinctTerms(t *testing.T) {
	ix := New()
	ix.Add(note("n1", "", "alpha alpha alpha beta"))
	if ix.Size() != 2 {
		t.Errorf("Size() = %d, want 2", ix.Size())
	}
}

func TestTerms_Copy(t *testing.T) {
	ix := New()
	ix.Add(note("n1", "", "alpha beta"))
	terms := ix.Terms("n1")
	if len(terms) != 2 {
		t.Fatalf("Terms(n1) = %v, want 2 terms", terms)
	}
	terms[0] = "mutated"
	if got := ix.Terms("n1"); got[0] == "mutated" {
		t.Error("Terms returned internal slice")
	}
}
