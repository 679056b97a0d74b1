package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	SaveEntry(ctx context.Context, entry *domain.Entry) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, entry *domain.Entry) (*domain.Entry, error)
	ChangeStatus(ctx context.Context, entry *domain.Entry, status domain.EntryStatus) error
	DeleteEntry(ctx context.Context, entry *domain.Entry) error
	SearchEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error)
	FindEntry(ctx context.Context, id string) (*domain.Entry, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// Create saves a new entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := req.ToDomain()
	if err != nil {
		writeDomainError(w, "invalid entry", err)
		return
	}

	saved, err := h.entryUC.SaveEntry(r.Context(), entry)
	if err != nil {
		writeDomainError(w, "failed to save entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(saved))
}

// Search lists entries matching the query parameters.
func (h *EntryHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEntryFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid search criteria", err.Error())
		return
	}

	entries, err := h.entryUC.SearchEntries(r.Context(), filter)
	if err != nil {
		writeDomainError(w, "failed to search entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   len(entries),
	})
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Update replaces the editable fields of an entry.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.load(w, r)
	if !ok {
		return
	}

	var req dto.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.ApplyTo(entry); err != nil {
		writeDomainError(w, "invalid entry", err)
		return
	}

	updated, err := h.entryUC.UpdateEntry(r.Context(), entry)
	if err != nil {
		writeDomainError(w, "failed to update entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(updated))
}

// ChangeStatus moves an entry to the status in the body.
func (h *EntryHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.load(w, r)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	status, err := domain.ParseEntryStatus(req.Status)
	if err != nil {
		writeDomainError(w, "invalid status", err)
		return
	}

	if err := h.entryUC.ChangeStatus(r.Context(), entry, status); err != nil {
		writeDomainError(w, "failed to change status", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Delete removes an entry.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.entryUC.DeleteEntry(r.Context(), entry); err != nil {
		writeDomainError(w, "failed to delete entry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// load fetches the entry named by the id URL parameter, writing a 404 when
// there is none.
func (h *EntryHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Entry, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return nil, false
	}

	entry, err := h.entryUC.FindEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get entry", err)
		return nil, false
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "entry not found", id)
		return nil, false
	}

	return entry, true
}
