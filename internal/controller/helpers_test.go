package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hvac-backend/internal/auth"
)

// call routes one request through a chi router so URL params resolve.
func call(t *testing.T, method, pattern, path string, h http.HandlerFunc, body any, who *auth.Principal) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if who != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), *who))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func admin() *auth.Principal { return &auth.Principal{UserID: 1, Role: "admin"} }
