package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
	"github.com/AnshRaj112/recipe-finder-backend/internal/services"
)

type contextKey string

const accountContextKey contextKey = "account"

// Resolver maps a bearer credential to an account.
type Resolver interface {
	Resolve(ctx context.Context, bearer string) (*models.Account, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>"
// header. The resolved account is available through AccountFromContext.
func RequireAuth(resolver Resolver, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			account, err := resolver.Resolve(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, services.ErrInvalidToken),
				errors.Is(err, services.ErrMalformedClaims),
				errors.Is(err, services.ErrAccountNotFound):
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			default:
				log.WithError(err).WithField("request_id", chimw.GetReqID(r.Context())).
					Error("resolve identity")
				writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := WithAccount(r.Context(), account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFromContext returns the account set by RequireAuth.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(*models.Account)
	return account, ok && account != nil
}

// WithAccount stores an account on ctx the same way RequireAuth does.
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
