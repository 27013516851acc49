package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/handlers"
	"github.com/AnshRaj112/recipe-finder-backend/internal/logging"
	"github.com/AnshRaj112/recipe-finder-backend/internal/services"
)

const catalogSearch = `{"totalResults": 2, "results": [
  {"id": 11, "title": "Soup", "nutrition": {"nutrients": [{"name": "Calories", "amount": 250}]}},
  {"id": 12, "title": "Roast", "nutrition": {"nutrients": [{"name": "Calories", "amount": 900}]}}
]}`

type testAPI struct {
	t      *testing.T
	server *httptest.Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/recipes/complexSearch":
			_, _ = io.WriteString(w, catalogSearch)
		case "/recipes/11/information":
			_, _ = io.WriteString(w, `{"id": 11, "title": "Soup", "servings": 4}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"status": "failure", "message": "not found"}`)
		}
	}))
	t.Cleanup(upstream.Close)

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
		Catalog:   services.NewCatalog(services.CatalogConfig{APIKey: "k", BaseURL: upstream.URL}, nil, log),
		Log:       log,
	}

	r := chi.NewRouter()
	SetupRoutes(r, h, services.NewIdentityResolver(tokens, stores.Accounts), log)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testAPI{t: t, server: srv}
}

func (a *testAPI) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.server.URL+path, rd)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	return a.send(req, token)
}

func (a *testAPI) send(req *http.Request, token string) (int, map[string]any) {
	a.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(a.t, json.Unmarshal(raw, &out))
	} else if len(raw) > 0 && raw[0] == '[' {
		var list []any
		require.NoError(a.t, json.Unmarshal(raw, &list))
		out["list"] = list
	}
	return resp.StatusCode, out
}

func (a *testAPI) register(email string) string {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "username": "cook", "password": "s3cret!", "confirm_password": "s3cret!",
	})
	require.Equal(a.t, http.StatusCreated, status, body)
	assert.Equal(a.t, "bearer", body["token_type"])
	return body["access_token"].(string)
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("cook@example.com")

	status, body := api.do(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cook@example.com", body["email"])
	assert.Equal(t, "cook", body["username"])

	status, body = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "cook@example.com", "username": "cook", "password": "s3cret!", "confirm_password": "s3cret!",
	})
	assert.Equal(t, http.StatusConflict, status, "email taken is a conflict")
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Email already registered", body["message"])

	status, body = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "other@example.com", "username": "other", "password": "s3cret!", "confirm_password": "s3cret?",
	})
	assert.Equal(t, http.StatusBadRequest, status, "password mismatch is invalid input")
	assert.Equal(t, "Passwords do not match", body["message"])

	status, body = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "cook@example.com", "password": "s3cret!"})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access_token"])

	status, wrong := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "cook@example.com", "password": "bad"})
	assert.Equal(t, http.StatusBadRequest, status)
	_, unknown := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "bad"})
	assert.Equal(t, wrong, unknown)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/meal-plans?start_date=2024-05-01&end_date=2024-05-07"},
		{http.MethodPost, "/api/recipes/save"},
		{http.MethodGet, "/api/recipes/saved"},
		{http.MethodGet, "/api/recipes/saved_recipes"},
		{http.MethodGet, "/api/recipes/is-saved/11"},
		{http.MethodGet, "/api/my-recipes/community"},
		{http.MethodPost, "/api/reviews"},
	} {
		status, _ := api.do(route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s", route.method, route.path)

		status, _ = api.do(route.method, route.path, "not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s", route.method, route.path)
	}

	status, _ := api.do(http.MethodGet, "/api/reviews?recipe_id=1&source_type=spoonacular", "", nil)
	assert.Equal(t, http.StatusOK, status, "listing reviews is public")
}

func TestMealPlanRoutes(t *testing.T) {
	api := newTestAPI(t)
	owner := api.register("owner@example.com")
	other := api.register("other@example.com")

	entry := map[string]string{"source_id": "11", "source_type": "spoonacular", "date": "2024-05-01", "meal_type": "dinner", "title": "Soup"}
	status, created := api.do(http.MethodPost, "/api/meal-plans", owner, entry)
	require.Equal(t, http.StatusCreated, status, created)
	id := created["id"].(string)

	status, _ = api.do(http.MethodPost, "/api/meal-plans", owner, entry)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = api.do(http.MethodPatch, "/api/meal-plans/"+id, other, map[string]string{"meal_type": "lunch"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := api.do(http.MethodPatch, "/api/meal-plans/"+id, owner, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No fields provided", body["message"])

	status, body = api.do(http.MethodPatch, "/api/meal-plans/"+id, owner, map[string]string{"meal_type": "lunch"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "lunch", body["meal_type"])

	status, body = api.do(http.MethodGet, "/api/meal-plans?start_date=2024-05-01&end_date=2024-05-01", owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["list"], 1)

	status, _ = api.do(http.MethodDelete, "/api/meal-plans/"+id, owner, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = api.do(http.MethodDelete, "/api/meal-plans/"+id, owner, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSavedRecipeRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("cook@example.com")

	save := map[string]any{"recipe_id": "11", "source_type": "spoonacular", "title": "Soup"}
	status, body := api.do(http.MethodPost, "/api/recipes/save", token, save)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body["saved"])
	assert.Equal(t, "11", body["recipe_id"])

	status, _ = api.do(http.MethodPost, "/api/recipes/save", token, save)
	assert.Equal(t, http.StatusOK, status, "second save is idempotent")

	status, body = api.do(http.MethodGet, "/api/recipes/is-saved/11", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["saved"])

	status, body = api.do(http.MethodGet, "/api/recipes/saved?page=1&per_page=5", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total_results"])
	assert.EqualValues(t, 5, body["per_page"])

	status, body = api.do(http.MethodGet, "/api/recipes/saved_recipes", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["list"], 1)

	status, _ = api.do(http.MethodDelete, "/api/recipes/unsave/11", token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = api.do(http.MethodDelete, "/api/recipes/unsave/11", token, nil)
	assert.Equal(t, http.StatusOK, status)

	_, body = api.do(http.MethodGet, "/api/recipes/is-saved/11?source_type=spoonacular", token, nil)
	assert.Equal(t, false, body["saved"])

	status, body = api.do(http.MethodGet, "/api/recipes/saved?page=4611686018427387904&per_page=12", token, nil)
	require.Equal(t, http.StatusOK, status, "huge page numbers are clamped")
	assert.Empty(t, body["results"])

	status, _ = api.do(http.MethodGet, "/api/recipes/saved?page=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCatalogRoutes(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(http.MethodGet, "/api/recipes/search?q=soup&minCalories=100&maxCalories=300", "", nil)
	require.Equal(t, http.StatusOK, status, body)
	results := body["results"].([]any)
	require.Len(t, results, 1)
	assert.EqualValues(t, 11, results[0].(map[string]any)["id"])

	status, body = api.do(http.MethodGet, "/api/recipes/11", "", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Soup", body["title"])

	status, body = api.do(http.MethodGet, "/api/recipes/99", "", nil)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.NotNil(t, body["detail"], "upstream body is passed through")

	status, _ = api.do(http.MethodGet, "/api/recipes/search?q=soup&maxReadyTime=soon", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMyRecipeAndReviewRoutes(t *testing.T) {
	api := newTestAPI(t)
	author := api.register("author@example.com")
	reader := api.register("reader@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Grandma's Stew"))
	require.NoError(t, mw.WriteField("servings", "4"))
	require.NoError(t, mw.WriteField("ingredients", `[{"name": "beef", "amount": "500g"}]`))
	require.NoError(t, mw.WriteField("steps", `[{"step": "Simmer"}]`))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, api.server.URL+"/api/my-recipes", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	status, recipe := api.send(req, author)
	require.Equal(t, http.StatusCreated, status, recipe)
	id := recipe["id"].(string)
	assert.EqualValues(t, 4, recipe["servings"])

	status, body := api.do(http.MethodGet, "/api/my-recipes/"+id, reader, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Grandma's Stew", body["title"])

	status, body = api.do(http.MethodGet, "/api/my-recipes/community", reader, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total_results"])

	review := map[string]any{"recipe_id": id, "source_type": "community", "rating": 5, "comment": "Lovely"}
	status, _ = api.do(http.MethodPost, "/api/reviews", reader, review)
	require.Equal(t, http.StatusCreated, status)
	status, _ = api.do(http.MethodPost, "/api/reviews", reader, review)
	assert.Equal(t, http.StatusConflict, status)

	status, body = api.do(http.MethodGet, "/api/reviews?recipe_id="+id+"&source_type=community", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total_results"])

	status, _ = api.do(http.MethodDelete, "/api/my-recipes/"+id, reader, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = api.do(http.MethodDelete, "/api/my-recipes/"+id, author, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = api.do(http.MethodGet, "/api/my-recipes/"+id, reader, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
