// internal/controller/response.go
package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/logger"
	"github.com/unclebandit/hvac-backend/internal/model"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("encode response")
	}
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// writeError maps application errors onto status codes. Anything unknown
// is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation   *appErrors.ValidationError
		notFound     *appErrors.NotFoundError
		conflict     *appErrors.ConflictError
		unauthorized *appErrors.UnauthorizedError
		forbidden    *appErrors.ForbiddenError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": validation.Fields})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFound.Resource + " not found"})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": conflict.Message})
	case errors.As(err, &unauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": unauthorized.Message})
	case errors.As(err, &forbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": forbidden.Message})
	default:
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
	}
}

func writeList(w http.ResponseWriter, key string, items interface{}, page model.PageRequest, total int) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		key:          items,
		"pagination": model.NewPagination(page, total),
	})
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return appErrors.NewValidation("body", "Invalid request body")
	}
	return validate(dst)
}

// decodeOptional is decode for bodies that may be absent or empty, including
// chunked requests with no declared length.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return appErrors.NewValidation("body", "Invalid request body")
	}
	return validate(dst)
}

func parseID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, appErrors.NewValidation(name, "Valid ID is required")
	}
	return id, nil
}

// parsePage reads page and limit. page defaults to 1, limit to 10 and may
// not exceed 100.
func parsePage(r *http.Request) (model.PageRequest, error) {
	p := model.PageRequest{Page: 1, Limit: model.DefaultPageLimit}
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, appErrors.NewValidation("page", "Page must be a positive integer")
		}
		p.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > model.MaxPageLimit {
			return p, appErrors.NewValidation("limit", "Limit must be between 1 and 100")
		}
		p.Limit = n
	}
	return p, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, appErrors.NewValidation(name, name+" must be an integer")
	}
	return &n, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, appErrors.NewValidation(name, name+" must be YYYY-MM-DD")
	}
	return &t, nil
}

func queryBool(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "true"
}

// parseTime accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseTime(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, appErrors.NewValidation(field, field+" must be a valid ISO 8601 date")
}

// parseOptionalTime is parseTime for nullable fields.
func parseOptionalTime(field string, v *string) (*time.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	t, err := parseTime(field, *v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
