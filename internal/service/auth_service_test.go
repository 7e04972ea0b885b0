package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hvac-backend/internal/auth"
	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/service"
)

type MockUserRepo struct {
	users  map[string]*model.User
	nextID int
	hashes map[int]string
}

func newMockUserRepo() *MockUserRepo {
	return &MockUserRepo{users: map[string]*model.User{}, nextID: 1, hashes: map[int]string{}}
}

func (m *MockUserRepo) GetByID(_ context.Context, id int) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, appErrors.NewNotFound("User", id)
}

func (m *MockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, appErrors.NewNotFound("User", nil)
}

func (m *MockUserRepo) Create(_ context.Context, u *model.User) error {
	if _, ok := m.users[u.Email]; ok {
		return appErrors.NewConflict("User already exists")
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.Email] = u
	return nil
}

func (m *MockUserRepo) UpdateProfile(context.Context, *model.User) error { return nil }

func (m *MockUserRepo) UpdatePassword(_ context.Context, id int, hash string) error {
	m.hashes[id] = hash
	return nil
}

func newAuthService() (*service.AuthService, *MockUserRepo) {
	repo := newMockUserRepo()
	return &service.AuthService{Users: repo, Tokens: auth.NewTokenManager("test-secret", time.Hour)}, repo
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	res, err := svc.Register(ctx, service.RegisterInput{
		Email: "  Tech@HVAC.com ", Password: "secret1", FirstName: "Tia", LastName: "Ng",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "tech@hvac.com", res.User.Email)
	assert.Equal(t, model.RoleUser, res.User.Role)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)

	login, err := svc.Login(ctx, "TECH@hvac.com", "secret1")
	require.NoError(t, err)
	claims, err := svc.Tokens.Parse(login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()
	_, err := svc.Register(ctx, service.RegisterInput{Email: "a@b.co", Password: "secret1", FirstName: "A", LastName: "B"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "a@b.co", "nope")
	_, unknownUser := svc.Login(ctx, "x@b.co", "secret1")

	var ue *appErrors.UnauthorizedError
	require.ErrorAs(t, wrongPassword, &ue)
	require.ErrorAs(t, unknownUser, &ue)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	in := service.RegisterInput{Email: "a@b.co", Password: "secret1", FirstName: "A", LastName: "B", Role: model.RoleAdmin}
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), in)
	var conflict *appErrors.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestChangePassword(t *testing.T) {
	svc, repo := newAuthService()
	ctx := context.Background()
	res, err := svc.Register(ctx, service.RegisterInput{Email: "a@b.co", Password: "secret1", FirstName: "A", LastName: "B"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, res.User.ID, "wrong", "secret2")
	var ve *appErrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "currentPassword", ve.Fields[0].Field)

	require.NoError(t, svc.ChangePassword(ctx, res.User.ID, "secret1", "secret2"))
	assert.True(t, auth.CheckPassword(repo.hashes[res.User.ID], "secret2"))
}
