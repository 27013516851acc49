package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/services"
)

// Parse multipart form (max 10MB)
const maxRecipeForm = 10 << 20

// CreateMyRecipe reads a multipart form. ingredients and steps are JSON
// arrays inside form fields; image is an optional file part.
func (h *Handler) CreateMyRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxRecipeForm); err != nil {
		h.writeError(w, r, apperr.Invalid("Failed to parse form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	in, err := recipeForm(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	file, _, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		in.Image = file
	case errors.Is(err, http.ErrMissingFile):
	default:
		h.writeError(w, r, apperr.Invalid("Invalid image upload"))
		return
	}

	recipe, err := h.Personal.Create(r.Context(), userID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}

func (h *Handler) ListMyRecipes(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	rows, err := h.Personal.ListMine(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(rows))
}

func (h *Handler) CommunityRecipes(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := pageParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.Personal.Community(r.Context(), page, perPage)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetMyRecipe is readable by any logged-in user.
func (h *Handler) GetMyRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.Personal.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *Handler) DeleteMyRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Personal.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recipe deleted"})
}

func recipeForm(r *http.Request) (services.PersonalRecipeInput, error) {
	in := services.PersonalRecipeInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
	}

	var err error
	if in.ReadyInMinutes, err = formInt(r, "readyInMinutes"); err != nil {
		return in, err
	}
	if in.Servings, err = formInt(r, "servings"); err != nil {
		return in, err
	}
	if raw := strings.TrimSpace(r.FormValue("calories")); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, apperr.Invalid("Invalid calories")
		}
		in.Calories = &f
	}

	if err := json.Unmarshal([]byte(r.FormValue("ingredients")), &in.Ingredients); err != nil {
		return in, apperr.Invalid("Invalid JSON for ingredients or steps")
	}
	if err := json.Unmarshal([]byte(r.FormValue("steps")), &in.Steps); err != nil {
		return in, apperr.Invalid("Invalid JSON for ingredients or steps")
	}
	return in, nil
}

func formInt(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Invalid("Invalid " + key)
	}
	return &n, nil
}
