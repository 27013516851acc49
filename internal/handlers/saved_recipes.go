package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
	"github.com/AnshRaj112/recipe-finder-backend/internal/services"
)

// Save Response
type SaveResponse struct {
	Saved bool `json:"saved"`
	*models.SavedRecipe
}

// SaveRecipe responds 201 for a new bookmark and 200 when it already existed.
func (h *Handler) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req services.SaveRecipeInput
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	row, created, err := h.Saved.Save(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, SaveResponse{Saved: true, SavedRecipe: row})
}

func (h *Handler) UnsaveRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	recipeID := chi.URLParam(r, "id")

	if err := h.Saved.Unsave(r.Context(), userID, recipeID, r.URL.Query().Get("source_type")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": false, "recipe_id": recipeID})
}

func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, perPage, err := pageParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.Saved.List(r.Context(), userID, page, perPage)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListAllSaved returns the full list without paging.
func (h *Handler) ListAllSaved(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	rows, err := h.Saved.ListAll(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(rows))
}

func (h *Handler) IsSaved(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	saved, err := h.Saved.IsSaved(r.Context(), userID, chi.URLParam(r, "id"), r.URL.Query().Get("source_type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}
