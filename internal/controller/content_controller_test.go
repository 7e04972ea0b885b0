package controller_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hvac-backend/internal/controller"
	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"5 Signs Your AC Needs Repair": "5-signs-your-ac-needs-repair",
		"  Heat Pumps: Worth It?  ":    "heat-pumps-worth-it",
		"Furnace -- Maintenance 101!!": "furnace-maintenance-101",
		"Ünicode & symbols":            "nicode-symbols",
		"":                             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, controller.Slugify(in), in)
	}
}

type MockBlogRepo struct {
	repository.BlogRepositoryInterface
	created *model.BlogPost
}

func (m *MockBlogRepo) Create(_ context.Context, p *model.BlogPost) error {
	p.ID = 4
	m.created = p
	return nil
}

func (m *MockBlogRepo) GetPublishedBySlug(_ context.Context, slug string) (*model.BlogPost, error) {
	if slug == "winter-prep" {
		return &model.BlogPost{ID: 1, Slug: slug, IsPublished: true}, nil
	}
	return nil, appErrors.NewNotFound("Blog post", nil)
}

func TestBlogCreateDerivesSlugAndAuthor(t *testing.T) {
	repo := &MockBlogRepo{}
	ctrl := &controller.BlogController{Repo: repo}

	w := call(t, http.MethodPost, "/blog", "/blog", ctrl.Create, map[string]any{
		"title": "Winter Prep: 5 Tips", "content": "Change your filters.", "isPublished": true,
	}, admin())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, repo.created)
	assert.Equal(t, "winter-prep-5-tips", repo.created.Slug)
	require.NotNil(t, repo.created.AuthorID)
	assert.Equal(t, 1, *repo.created.AuthorID)
}

func TestBlogCreateRequiresPrincipal(t *testing.T) {
	repo := &MockBlogRepo{}
	ctrl := &controller.BlogController{Repo: repo}

	w := call(t, http.MethodPost, "/blog", "/blog", ctrl.Create, map[string]any{"title": "x", "content": "y"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, repo.created)
}

func TestBlogGetBySlug(t *testing.T) {
	ctrl := &controller.BlogController{Repo: &MockBlogRepo{}}

	w := call(t, http.MethodGet, "/blog/slug/{slug}", "/blog/slug/winter-prep", ctrl.GetBySlug, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, http.MethodGet, "/blog/slug/{slug}", "/blog/slug/missing", ctrl.GetBySlug, nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Blog post not found", decodeBody(t, w)["error"])
}

type MockSettingsRepo struct {
	repository.SettingsRepositoryInterface
	values map[string]string
}

func (m *MockSettingsRepo) Upsert(_ context.Context, values map[string]string) error {
	m.values = values
	return nil
}

func TestSettingsUpdate(t *testing.T) {
	repo := &MockSettingsRepo{}
	ctrl := &controller.SettingsController{Repo: repo}

	w := call(t, http.MethodPut, "/settings", "/settings", ctrl.Update,
		`{"companyName":"Cool Air","taxRate":8.25,"hours":{"mon":"8-5"}}`, admin())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Settings updated successfully", decodeBody(t, w)["message"])
	assert.Equal(t, map[string]string{
		"companyName": "Cool Air",
		"taxRate":     "8.25",
		"hours":       `{"mon":"8-5"}`,
	}, repo.values)
}

func TestSettingsUpdateRejectsEmptyBody(t *testing.T) {
	repo := &MockSettingsRepo{}
	ctrl := &controller.SettingsController{Repo: repo}

	w := call(t, http.MethodPut, "/settings", "/settings", ctrl.Update, `{}`, admin())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, repo.values)
}
