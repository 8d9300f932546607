package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/noteservice"
	"github.com/starford/laguz/internal/store"
)

// CreateOpportunity handles POST /api/opportunities.
//
//	@Summary		Create a new opportunity
//	@Tags			opportunities
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateOpportunityRequest	true	"Opportunity to create"
//	@Success		201		{object}	models.Opportunity
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/opportunities [post]
func (h *Handler) CreateOpportunity(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateOpportunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	opp, err := h.svc.CreateOpportunity(r.Context(), noteservice.CreateOpportunityInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Tags:        req.Tags,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeServiceError(w, err, "create opportunity failed")
		return
	}
	writeJSON(w, http.StatusCreated, opp)
}

// GetOpportunity handles GET /api/opportunities/{id}.
//
//	@Summary		Get a single opportunity by id
//	@Tags			opportunities
//	@Produce		json
//	@Param			id	path		string	true	"Opportunity id"
//	@Success		200	{object}	models.Opportunity
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/opportunities/{id} [get]
func (h *Handler) GetOpportunity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	opp, err := h.svc.GetOpportunity(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get opportunity failed")
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

// ListOpportunities handles GET /api/opportunities.
//
//	@Summary		List opportunities with optional filtering
//	@Tags			opportunities
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"
//	@Param			tag		query		string	false	"Filter by tag (repeatable)"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	OpportunityListResponse
//	@Security		BearerAuth
//	@Router			/opportunities [get]
func (h *Handler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	opps, err := h.svc.ListOpportunities(r.Context(), store.OpportunityFilter{
		Status: q.Get("status"),
		Tags:   q["tag"],
		Limit:  limit,
	})
	if err != nil {
		writeServiceError(w, err, "list opportunities failed")
		return
	}
	writeJSON(w, http.StatusOK, OpportunityListResponse{Opportunities: opps, Total: len(opps)})
}

// UpdateOpportunityStatus handles PUT /api/opportunities/{id}/status.
//
//	@Summary		Change an opportunity's status
//	@Tags			opportunities
//	@Accept			json
//	@Param			id		path		string							true	"Opportunity id"
//	@Param			body	body		UpdateOpportunityStatusRequest	true	"New status"
//	@Success		204		"Status updated"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/opportunities/{id}/status [put]
func (h *Handler) UpdateOpportunityStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateOpportunityStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.svc.UpdateOpportunityStatus(r.Context(), id, req.Status); err != nil {
		writeServiceError(w, err, "update opportunity status failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
