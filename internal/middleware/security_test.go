package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get(headerXContentTypeOptions))
	assert.Equal(t, "DENY", rec.Header().Get(headerXFrameOptions))
	assert.NotEmpty(t, rec.Header().Get(headerStrictTransportSecurity))
}

func TestHostCheck(t *testing.T) {
	h := HostCheck("api.recipefinder.app")(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "API.recipefinder.app:443"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req.Host = "evil.example.com"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	HostCheck("")(okHandler).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "empty host disables the check")
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/meal-plans", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
