package seed_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
	"github.com/unclebandit/hvac-backend/internal/seed"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoadDirMergesInNameOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "02_more.yaml", `
settings:
  companyName: Cool Air HVAC
services:
  - name: Duct Cleaning
    description: Whole-home duct cleaning
    price: 299
    duration: 180
`)
	writeFile(t, dir, "01_base.yaml", `
settings:
  companyName: Placeholder
  companyPhone: "(555) 123-4567"
pages:
  - id: about
    title: About Us
    content: Family owned since 1998.
admin:
  email: admin@example.com
`)
	writeFile(t, dir, "notes.txt", "ignored")

	d, err := seed.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"companyName": "Cool Air HVAC", "companyPhone": "(555) 123-4567"}, d.Settings)
	require.Len(t, d.Pages, 1)
	require.Len(t, d.Services, 1)
	assert.Equal(t, 180, d.Services[0].Duration)
	require.NotNil(t, d.Admin)
}

func TestLoadDirValidates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01.yaml", `
testimonials:
  - customerName: Pat
    rating: 6
    content: Great
`)
	_, err := seed.LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating")

	_, err = seed.LoadDir(t.TempDir())
	assert.Error(t, err)
}

func TestBundledSeedFilesLoad(t *testing.T) {
	d, err := seed.LoadDir(filepath.Join("..", "..", "seed"))
	require.NoError(t, err)
	assert.NotEmpty(t, d.Settings)
	assert.NotEmpty(t, d.Pages)
	assert.NotEmpty(t, d.Services)
}

type memSettings struct {
	repository.SettingsRepositoryInterface
	values map[string]string
	pages  map[string]*model.PageContent
}

func (m *memSettings) Upsert(_ context.Context, v map[string]string) error {
	for k, val := range v {
		m.values[k] = val
	}
	return nil
}

func (m *memSettings) UpsertPage(_ context.Context, p *model.PageContent) error {
	m.pages[p.PageID] = p
	return nil
}

type memServices struct {
	repository.ServiceRepositoryInterface
	rows []model.Service
}

func (m *memServices) List(context.Context, bool) ([]model.Service, error) { return m.rows, nil }

func (m *memServices) Create(_ context.Context, s *model.Service) error {
	m.rows = append(m.rows, *s)
	return nil
}

type memTestimonials struct {
	repository.TestimonialRepositoryInterface
	rows []model.Testimonial
}

func (m *memTestimonials) List(context.Context, bool, model.PageRequest) ([]model.Testimonial, int, error) {
	return m.rows, len(m.rows), nil
}

func (m *memTestimonials) Create(_ context.Context, t *model.Testimonial) error {
	m.rows = append(m.rows, *t)
	return nil
}

type memUsers struct {
	repository.UserRepositoryInterface
	byEmail map[string]*model.User
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, appErrors.NewNotFound("User", nil)
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	u.ID = len(m.byEmail) + 1
	m.byEmail[u.Email] = u
	return nil
}

func TestApplyIsIdempotent(t *testing.T) {
	st := seed.Store{
		Settings:     &memSettings{values: map[string]string{}, pages: map[string]*model.PageContent{}},
		Services:     &memServices{rows: []model.Service{{ID: 1, Name: "AC Repair"}}},
		Testimonials: &memTestimonials{},
		Users:        &memUsers{byEmail: map[string]*model.User{}},
	}
	d := &seed.Data{
		Settings: map[string]string{"companyName": "Cool Air"},
		Pages:    []seed.Page{{ID: "about", Title: "About", Content: "Hi"}},
		Services: []seed.Service{
			{Name: "ac repair", Description: "dup", Price: 1, Duration: 60},
			{Name: "Furnace Tune-Up", Description: "Annual", Price: 89, Duration: 90},
		},
		Testimonials: []seed.Testimonial{{CustomerName: "Pat", Rating: 5, Content: "Great"}},
		Admin:        &seed.Admin{Email: "Admin@Example.com"},
	}

	rep, err := seed.Apply(context.Background(), st, d, "changeme", quietLog())
	require.NoError(t, err)
	assert.Equal(t, &seed.Report{Settings: 1, Pages: 1, Services: 1, Testimonials: 1, AdminCreated: true}, rep)

	admin := st.Users.(*memUsers).byEmail["admin@example.com"]
	require.NotNil(t, admin)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Equal(t, "Admin", admin.FirstName)

	rep, err = seed.Apply(context.Background(), st, d, "changeme", quietLog())
	require.NoError(t, err)
	assert.Zero(t, rep.Services)
	assert.Zero(t, rep.Testimonials)
	assert.False(t, rep.AdminCreated)
	assert.Len(t, st.Services.(*memServices).rows, 2)
}

func TestApplySkipsAdminWithoutPassword(t *testing.T) {
	users := &memUsers{byEmail: map[string]*model.User{}}
	st := seed.Store{
		Settings:     &memSettings{values: map[string]string{}, pages: map[string]*model.PageContent{}},
		Services:     &memServices{},
		Testimonials: &memTestimonials{},
		Users:        users,
	}
	rep, err := seed.Apply(context.Background(), st, &seed.Data{Admin: &seed.Admin{Email: "a@b.co"}}, "", quietLog())
	require.NoError(t, err)
	assert.False(t, rep.AdminCreated)
	assert.Empty(t, users.byEmail)
}

func TestEnsureAdminRejectsShortPassword(t *testing.T) {
	_, _, err := seed.EnsureAdmin(context.Background(), &memUsers{byEmail: map[string]*model.User{}}, "a@b.co", "123", "", "")
	assert.Error(t, err)
}
