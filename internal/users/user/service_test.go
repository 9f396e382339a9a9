// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/config"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/internal/users/user"
)

// # Test Doubles

// fakeRepo is an in-memory user.Repository keyed by account ID.
type fakeRepo struct {
	byID map[string]*user.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]*user.User)}
}

func (repo *fakeRepo) Create(_ context.Context, account *user.User) error {
	for _, existing := range repo.byID {
		if existing.Username == account.Username {
			return apperr.Conflict("Username is already taken",
				apperr.FieldError{Field: "username", Message: "Already in use"})
		}
		if existing.Email == account.Email {
			return apperr.Conflict("Email is already registered",
				apperr.FieldError{Field: "email", Message: "Already in use"})
		}
	}
	clone := *account
	repo.byID[account.ID] = &clone
	return nil
}

func (repo *fakeRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	account, ok := repo.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *account
	return &clone, nil
}

func (repo *fakeRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	for _, account := range repo.byID {
		if account.Username == username {
			clone := *account
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, account := range repo.byID {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeRepo) List(_ context.Context, search string, limit, offset int) ([]*user.User, int, error) {
	var matched []*user.User
	for _, account := range repo.byID {
		if search == "" || strings.Contains(account.Username, search) {
			matched = append(matched, account)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repo *fakeRepo) Update(_ context.Context, account *user.User) error {
	if _, ok := repo.byID[account.ID]; !ok {
		return apperr.NotFound("User")
	}
	clone := *account
	repo.byID[account.ID] = &clone
	return nil
}

func (repo *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := repo.byID[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.byID, id)
	return nil
}

// # Fixtures

func newTestService() (*user.Service, *fakeRepo) {
	repo := newFakeRepo()
	limits := config.Limits{NameMaxLength: 256, UsernameMaxLength: 150, EmailMaxLength: 254}
	return user.NewService(repo, limits, slog.New(slog.NewJSONHandler(io.Discard, nil))), repo
}

func adminClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "a1", Username: "root", Role: string(sec.RoleAdmin)}
}

func strPtr(v string) *string { return &v }

// # Administration Tests

/*
TestService_CreateUser verifies admin provisioning: any valid role may be
assigned at creation, and an empty role defaults to the standard one.
*/
func TestService_CreateUser(t *testing.T) {
	t.Parallel()

	service, _ := newTestService()

	created, err := service.CreateUser(context.Background(), adminClaims(), user.CreateInput{
		Username: "mod", Email: "mod@example.com", Role: "moderator",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, created.Role)
	assert.NotEmpty(t, created.ID)

	defaulted, err := service.CreateUser(context.Background(), adminClaims(), user.CreateInput{
		Username: "plain", Email: "plain@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, defaulted.Role)
}

/*
TestService_CreateUser_InvalidRole verifies that an unknown role name is
a 400, not silently coerced.
*/
func TestService_CreateUser_InvalidRole(t *testing.T) {
	t.Parallel()

	service, _ := newTestService()

	_, err := service.CreateUser(context.Background(), adminClaims(), user.CreateInput{
		Username: "x", Email: "x@example.com", Role: "owner",
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}

/*
TestService_AdminGate verifies that every administration operation rejects
non-admin callers: 403 for authenticated users, 401 for anonymous.
*/
func TestService_AdminGate(t *testing.T) {
	t.Parallel()

	service, _ := newTestService()
	userClaims := &sec.AuthClaims{UserID: "u1", Username: "jane", Role: string(sec.RoleUser)}

	operations := map[string]func(actor *sec.AuthClaims) error{
		"create": func(actor *sec.AuthClaims) error {
			_, err := service.CreateUser(context.Background(), actor, user.CreateInput{
				Username: "x", Email: "x@example.com"})
			return err
		},
		"list": func(actor *sec.AuthClaims) error {
			_, _, err := service.ListUsers(context.Background(), actor, "", 10, 0)
			return err
		},
		"get": func(actor *sec.AuthClaims) error {
			_, err := service.GetUser(context.Background(), actor, "jane")
			return err
		},
		"update": func(actor *sec.AuthClaims) error {
			_, err := service.UpdateUser(context.Background(), actor, "jane", user.UpdateInput{})
			return err
		},
		"delete": func(actor *sec.AuthClaims) error {
			return service.DeleteUser(context.Background(), actor, "jane")
		},
	}

	for name, operation := range operations {
		t.Run(name, func(t *testing.T) {
			err := operation(userClaims)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)

			err = operation(nil)
			appError = apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
		})
	}

	// Moderators hold no extra privilege over user accounts.
	moderator := &sec.AuthClaims{UserID: "m1", Username: "mod", Role: string(sec.RoleModerator)}
	_, _, err := service.ListUsers(context.Background(), moderator, "", 10, 0)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)
}

/*
TestService_UpdateUser verifies the admin patch path, including a role
change, with omitted fields preserved.
*/
func TestService_UpdateUser(t *testing.T) {
	t.Parallel()

	service, _ := newTestService()
	_, err := service.CreateUser(context.Background(), adminClaims(), user.CreateInput{
		Username: "jane", Email: "jane@example.com", Bio: "hello",
	})
	require.NoError(t, err)

	updated, err := service.UpdateUser(context.Background(), adminClaims(), "jane", user.UpdateInput{
		Role: strPtr("moderator"),
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, updated.Role)
	assert.Equal(t, "hello", updated.Bio, "omitted fields must survive")
}

/*
TestService_DeleteUser verifies removal and the 404 for a retry.
*/
func TestService_DeleteUser(t *testing.T) {
	t.Parallel()

	service, _ := newTestService()
	_, err := service.CreateUser(context.Background(), adminClaims(), user.CreateInput{
		Username: "jane", Email: "jane@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteUser(context.Background(), adminClaims(), "jane"))

	err = service.DeleteUser(context.Background(), adminClaims(), "jane")
	assert.True(t, apperr.IsNotFound(err))
}

// # Self-Service Tests

/*
TestService_UpdateMe verifies the self-service patch: profile fields
change, and the stored role always survives whatever the client sent.
*/
func TestService_UpdateMe(t *testing.T) {
	t.Parallel()

	service, repo := newTestService()
	created, err := service.CreateUser(context.Background(), adminClaims(), user.CreateInput{
		Username: "jane", Email: "jane@example.com", Role: "moderator",
	})
	require.NoError(t, err)

	escalation := "admin"
	updated, err := service.UpdateMe(context.Background(), created.ID, user.UpdateInput{
		Bio:  strPtr("reviewer of things"),
		Role: &escalation,
	})

	require.NoError(t, err)
	assert.Equal(t, "reviewer of things", updated.Bio)
	assert.Equal(t, sec.RoleModerator, updated.Role, "role must never change through /me")
	assert.Equal(t, sec.RoleModerator, repo.byID[created.ID].Role)
}

/*
TestService_GetMe verifies profile retrieval and the stale-token 404 for
an account that no longer exists.
*/
func TestService_GetMe(t *testing.T) {
	t.Parallel()

	service, _ := newTestService()
	created, err := service.CreateUser(context.Background(), adminClaims(), user.CreateInput{
		Username: "jane", Email: "jane@example.com",
	})
	require.NoError(t, err)

	found, err := service.GetMe(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane", found.Username)

	_, err = service.GetMe(context.Background(), "gone")
	assert.True(t, apperr.IsNotFound(err))
}
