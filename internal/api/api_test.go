package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/noteservice"
	"github.com/starford/laguz/internal/testutil"
)

// testEnv sets up a temp SQLite DB, service, and router for testing.
// An empty token means auth disabled; a non-empty token enables token mode.
func testEnv(t *testing.T, authToken string) (*noteservice.Service, http.Handler) {
	t.Helper()
	svc := testutil.TestService(t)
	router := NewRouter(svc, authToken != "", authToken, nil)
	return svc, router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetNote(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/notes", map[string]any{
		"content": "Standup notes\nblockers discussed",
		"tags":    []string{"work"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == "" {
		t.Fatal("no id in create response")
	}
	if created.Title != "Standup notes" {
		t.Errorf("title = %q, want derived title", created.Title)
	}

	w = doJSON(t, router, http.MethodGet, "/notes/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Content != "Standup notes\nblockers discussed" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodGet, "/notes/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCreateNote_InvalidJSON(t *testing.T) {
	_, router := testEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateNote_Partial(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/notes", map[string]any{
		"title":   "Original",
		"content": "body",
	})
	var created models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(t, router, http.MethodPut, "/notes/"+created.ID, map[string]any{
		"content": "new body",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	var updated models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Title != "Original" {
		t.Errorf("title = %q, want untouched", updated.Title)
	}
	if updated.Content != "new body" {
		t.Errorf("content = %q", updated.Content)
	}
}

func TestDeleteNote(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/notes", map[string]any{"content": "bye"})
	var created models.Note
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(t, router, http.MethodDelete, "/notes/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", w.Code)
	}
	w = doJSON(t, router, http.MethodDelete, "/notes/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	doJSON(t, router, http.MethodPost, "/notes", map[string]any{"content": "alpha launch report"})
	doJSON(t, router, http.MethodPost, "/notes", map[string]any{"content": "unrelated groceries"})

	w := doJSON(t, router, http.MethodGet, "/search?q=alpha", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 {
		t.Errorf("results = %d, want 1", len(resp.Results))
	}
	if len(resp.Results) == 1 && resp.Results[0].Score != 1 {
		t.Errorf("score = %d, want 1", resp.Results[0].Score)
	}
}

func TestSearch_RequiresQuery(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodGet, "/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListNotes_TagFilter(t *testing.T) {
	_, router := testEnv(t, "")

	doJSON(t, router, http.MethodPost, "/notes", map[string]any{"content": "a", "tags": []string{"work"}})
	doJSON(t, router, http.MethodPost, "/notes", map[string]any{"content": "b", "tags": []string{"home"}})

	w := doJSON(t, router, http.MethodGet, "/notes?tag=work", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Total)
	}
}

func TestOpportunityEndpoints(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/opportunities", map[string]any{
		"title": "Acme renewal",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var opp models.Opportunity
	_ = json.Unmarshal(w.Body.Bytes(), &opp)
	if opp.Status != models.OpportunityOpen {
		t.Errorf("status = %q, want open", opp.Status)
	}

	w = doJSON(t, router, http.MethodPut, "/opportunities/"+opp.ID+"/status", map[string]any{
		"status": "won",
	})
	if w.Code != http.StatusNoContent {
		t.Errorf("status update = %d, want 204", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, "/opportunities/"+opp.ID+"/status", map[string]any{
		"status": "bogus",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status update = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/opportunities?status=won", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var resp OpportunityListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Total)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/analyze", map[string]any{
		"content": "Meeting about project Atlas with client Initech",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("analyze status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp noteservice.TextAnalysis
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Keywords) == 0 {
		t.Error("no keywords in response")
	}
}

func TestStatsEndpoint(t *testing.T) {
	_, router := testEnv(t, "")
	doJSON(t, router, http.MethodPost, "/notes", map[string]any{"content": "counted"})

	w := doJSON(t, router, http.MethodGet, "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	var stats models.Stats
	_ = json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.TotalNotes != 1 || !stats.Initialized {
		t.Errorf("stats = %+v", stats)
	}
}

func TestAuth_TokenMode(t *testing.T) {
	_, router := testEnv(t, "sekrit")

	// No token: rejected.
	w := doJSON(t, router, http.MethodGet, "/notes", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	// Wrong token: rejected.
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", w2.Code)
	}

	// Correct token: accepted.
	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	if w3.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", w3.Code)
	}
}

func TestAuth_DisabledMode(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodGet, "/notes", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 without auth", w.Code)
	}
}
