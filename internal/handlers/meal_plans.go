package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
	"github.com/AnshRaj112/recipe-finder-backend/internal/services"
)

// Meal Plan Update Request; omitted fields are left unchanged.
type MealPlanUpdateRequest struct {
	Date     *string `json:"date,omitempty"`
	MealType *string `json:"meal_type,omitempty"`
}

func (h *Handler) CreateMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req services.MealPlanInput
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	entry, err := h.MealPlans.Create(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListMealPlans returns entries with start_date <= date <= end_date, ascending.
func (h *Handler) ListMealPlans(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()

	entries, err := h.MealPlans.List(r.Context(), userID, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(entries))
}

func (h *Handler) UpdateMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req MealPlanUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	entry, err := h.MealPlans.Update(r.Context(), userID, chi.URLParam(r, "id"), models.MealPlanPatch{
		Date:     req.Date,
		MealType: req.MealType,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) DeleteMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.MealPlans.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
