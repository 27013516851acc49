package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnshRaj112/recipe-finder-backend/internal/config"
	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/handlers"
	"github.com/AnshRaj112/recipe-finder-backend/internal/logging"
	"github.com/AnshRaj112/recipe-finder-backend/internal/services"
)

func testRouter(cfg *config.Config) http.Handler {
	log := logging.Discard()
	stores := database.NewMemoryStores()
	tokens := services.NewTokenService("test-secret")
	guard := services.NewGuard(stores)
	h := &handlers.Handler{
		Auth:      services.NewAuthService(stores, guard, tokens),
		MealPlans: services.NewMealPlanService(stores, guard),
		Saved:     services.NewSavedRecipeService(stores, guard),
		Personal:  services.NewPersonalRecipeService(stores, guard, nil),
		Reviews:   services.NewReviewService(stores, guard),
		Catalog:   services.NewCatalog(services.CatalogConfig{}, nil, log),
		Log:       log,
	}
	return newRouter(cfg, log, h, services.NewIdentityResolver(tokens, stores.Accounts))
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := testRouter(&config.Config{AllowedOrigins: []string{"http://localhost:5173"}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "recipe_finder_http_requests_total"))
}

func TestRouter_MissingCatalogKey(t *testing.T) {
	r := testRouter(&config.Config{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes/search?q=soup", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_ProductionSecurity(t *testing.T) {
	r := testRouter(&config.Config{Environment: "production", AllowedHost: "api.recipefinder.app"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Host = "api.recipefinder.app"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	req.Host = "other.example.com"
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
