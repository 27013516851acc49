package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/services"
)

// SearchRecipes proxies to the catalog. minCalories and maxCalories are
// applied to the returned page.
func (h *Handler) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	params, err := searchParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.Catalog.Search(r.Context(), params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Catalog.Recipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func searchParams(r *http.Request) (services.SearchParams, error) {
	q := r.URL.Query()
	p := services.SearchParams{
		Query:              strings.TrimSpace(q.Get("q")),
		Cuisine:            q.Get("cuisine"),
		Diet:               q.Get("diet"),
		Intolerances:       q.Get("intolerances"),
		IncludeIngredients: q.Get("includeIngredients"),
		ExcludeIngredients: q.Get("excludeIngredients"),
		Sort:               q.Get("sort"),
		SortDirection:      q.Get("sortDirection"),
	}

	var err error
	if p.Page, p.PerPage, err = pageParams(r); err != nil {
		return p, err
	}
	if raw := q.Get("maxReadyTime"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, apperr.Invalid("Invalid maxReadyTime")
		}
		p.MaxReadyTime = &n
	}
	if p.MinCalories, err = optFloat(q.Get("minCalories"), "minCalories"); err != nil {
		return p, err
	}
	if p.MaxCalories, err = optFloat(q.Get("maxCalories"), "maxCalories"); err != nil {
		return p, err
	}
	if p.MinCalories != nil && p.MaxCalories != nil && *p.MinCalories > *p.MaxCalories {
		return p, apperr.Invalid("minCalories must not exceed maxCalories")
	}
	return p, nil
}

func optFloat(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Invalid("Invalid " + name)
	}
	return &f, nil
}
