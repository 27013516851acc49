package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
)

// maxJSONBody caps decoded request bodies.
const maxJSONBody = 1 << 20

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its HTTP status. Causes of internal errors are
// logged and never sent.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("Internal server error", err)
	}

	status := appErr.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError || appErr.Kind == apperr.KindUpstream {
		h.Log.WithError(err).WithFields(logrus.Fields{
			"kind":       appErr.Kind.String(),
			"path":       r.URL.Path,
			"request_id": chimw.GetReqID(r.Context()),
		}).Error("request failed")
	}

	message := appErr.Message
	if appErr.Kind == apperr.KindInternal {
		message = "Internal server error"
	}
	writeJSON(w, status, ErrorResponse{Success: false, Message: message, Detail: appErr.Detail})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return apperr.Invalid("Invalid request body")
	}
	return nil
}

// queryInt reads an optional integer query parameter; missing means 0.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &apperr.Error{Kind: apperr.KindInvalid, Message: "Invalid " + key, Detail: map[string]string{"field": key}}
	}
	return n, nil
}

func pageParams(r *http.Request) (page, perPage int, err error) {
	if page, err = queryInt(r, "page"); err != nil {
		return 0, 0, err
	}
	if perPage, err = queryInt(r, "per_page"); err != nil {
		return 0, 0, err
	}
	return page, perPage, nil
}

// orEmpty keeps empty listings encoding as [] rather than null.
func orEmpty[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
