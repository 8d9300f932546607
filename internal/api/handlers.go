package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeServiceError maps service errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, err error, context string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotInitialized):
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
	default:
		slog.Error(context, slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes with optional filtering
//	@Tags			notes
//	@Produce		json
//	@Param			tag				query		string	false	"Filter by tag (repeatable, OR semantics)"
//	@Param			opportunity_id	query		string	false	"Filter by opportunity reference"
//	@Param			workflow_id		query		string	false	"Filter by workflow reference"
//	@Param			task_id			query		string	false	"Filter by task reference"
//	@Param			limit			query		int		false	"Max results"
//	@Param			sort			query		string	false	"Sort order"	Enums(updated, created)
//	@Success		200				{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	notes, err := h.svc.ListNotes(r.Context(), noteservice.ListOptions{
		Tags:          q["tag"],
		OpportunityID: q.Get("opportunity_id"),
		WorkflowID:    q.Get("workflow_id"),
		TaskID:        q.Get("task_id"),
		Limit:         limit,
		ByCreated:     q.Get("sort") == "created",
	})
	if err != nil {
		writeServiceError(w, err, "list notes failed")
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note by id
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	models.Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get note failed")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	note, err := h.svc.CreateNote(r.Context(), noteservice.CreateNoteInput{
		Title:         req.Title,
		Content:       req.Content,
		Tags:          req.Tags,
		OpportunityID: req.OpportunityID,
		WorkflowID:    req.WorkflowID,
		TaskID:        req.TaskID,
		Encrypted:     req.Encrypted,
		Metadata:      req.Metadata,
	})
	if err != nil {
		writeServiceError(w, err, "create note failed")
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}. Absent body fields keep their
// stored values.
//
//	@Summary		Partially update a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Note id"
//	@Param			body	body		UpdateNoteRequest	true	"Fields to update"
//	@Success		200		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "id")

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	note, err := h.svc.UpdateNote(r.Context(), id, noteservice.UpdateNoteInput{
		Title:         req.Title,
		Content:       req.Content,
		Tags:          req.Tags,
		OpportunityID: req.OpportunityID,
		WorkflowID:    req.WorkflowID,
		TaskID:        req.TaskID,
		Encrypted:     req.Encrypted,
		Metadata:      req.Metadata,
	})
	if err != nil {
		writeServiceError(w, err, "update note failed")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existed, err := h.svc.DeleteNote(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "delete note failed")
		return
	}
	if !existed {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
//
//	@Summary		Ranked full-text search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q				query		string	true	"Search query"
//	@Param			tag				query		string	false	"Filter by tag (repeatable)"
//	@Param			opportunity_id	query		string	false	"Filter by opportunity reference"
//	@Param			limit			query		int		false	"Max results"
//	@Success		200				{object}	SearchResponse
//	@Failure		400				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	results, err := h.svc.Search(r.Context(), query, noteservice.SearchOptions{
		Tags:          q["tag"],
		OpportunityID: q.Get("opportunity_id"),
		Limit:         limit,
	})
	if err != nil {
		writeServiceError(w, err, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Stats handles GET /api/stats.
//
//	@Summary		Store and index diagnostics
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	models.Stats
//	@Security		BearerAuth
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err, "stats failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Analyze handles POST /api/analyze.
//
//	@Summary		Analyze content for keywords, patterns, and similar opportunities
//	@Tags			analyze
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AnalyzeRequest	true	"Content to analyze"
//	@Success		200		{object}	noteservice.TextAnalysis
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.svc.AnalyzeText(r.Context(), req.Content)
	if err != nil {
		writeServiceError(w, err, "analyze failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
