package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

type SettingsController struct {
	Repo repository.SettingsRepositoryInterface
}

func (c *SettingsController) All(w http.ResponseWriter, r *http.Request) {
	settings, err := c.Repo.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (c *SettingsController) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, err := c.Repo.Get(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// Update upserts every key of the body. Non-string values are stored as
// their JSON text.
func (c *SettingsController) Update(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if len(body) == 0 {
		writeError(w, r, appErrors.NewValidation("body", "At least one setting is required"))
		return
	}

	values := make(map[string]string, len(body))
	for k, raw := range body {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			values[k] = s
			continue
		}
		values[k] = string(raw)
	}

	if err := c.Repo.Upsert(r.Context(), values); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Settings updated successfully")
}

func (c *SettingsController) Pages(w http.ResponseWriter, r *http.Request) {
	pages, err := c.Repo.ListPages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

func (c *SettingsController) Page(w http.ResponseWriter, r *http.Request) {
	page, err := c.Repo.GetPage(r.Context(), chi.URLParam(r, "pageId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (c *SettingsController) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title           string  `json:"title" validate:"required"`
		Content         string  `json:"content" validate:"required"`
		MetaDescription *string `json:"metaDescription"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	page := &model.PageContent{
		PageID:          chi.URLParam(r, "pageId"),
		Title:           body.Title,
		Content:         body.Content,
		MetaDescription: body.MetaDescription,
	}
	if err := c.Repo.UpsertPage(r.Context(), page); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
