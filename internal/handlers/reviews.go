package handlers

import (
	"net/http"

	"github.com/AnshRaj112/recipe-finder-backend/internal/services"
)

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req services.ReviewInput
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	review, err := h.Reviews.Create(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// ListReviews is public; newest first.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := pageParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()

	result, err := h.Reviews.List(r.Context(), q.Get("recipe_id"), q.Get("source_type"), page, perPage)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
