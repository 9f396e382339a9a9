// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revio/internal/catalog/genre"
	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/config"
	"github.com/taibuivan/revio/internal/platform/sec"
)

// fakeRepo is an in-memory genre.Repository keyed by slug.
type fakeRepo struct {
	bySlug map[string]*genre.Genre
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bySlug: make(map[string]*genre.Genre), nextID: 1}
}

func (repo *fakeRepo) List(_ context.Context, _ string, _, _ int) ([]*genre.Genre, int, error) {
	var all []*genre.Genre
	for _, entry := range repo.bySlug {
		all = append(all, entry)
	}
	return all, len(all), nil
}

func (repo *fakeRepo) GetBySlug(_ context.Context, slug string) (*genre.Genre, error) {
	entry, ok := repo.bySlug[slug]
	if !ok {
		return nil, apperr.NotFound("Genre")
	}
	return entry, nil
}

func (repo *fakeRepo) Create(_ context.Context, entry *genre.Genre) error {
	if _, taken := repo.bySlug[entry.Slug]; taken {
		return apperr.Conflict("Slug is already in use",
			apperr.FieldError{Field: "slug", Message: "Already in use"})
	}
	entry.ID = repo.nextID
	repo.nextID++
	clone := *entry
	repo.bySlug[entry.Slug] = &clone
	return nil
}

func (repo *fakeRepo) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := repo.bySlug[slug]; !ok {
		return apperr.NotFound("Genre")
	}
	delete(repo.bySlug, slug)
	return nil
}

func newTestService(repo *fakeRepo) *genre.Service {
	limits := config.Limits{NameMaxLength: 256, SlugMaxLength: 50}
	return genre.NewService(repo, limits, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func adminClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "a1", Username: "root", Role: string(sec.RoleAdmin)}
}

/*
TestService_CreateGenre verifies creation with an explicit slug and the
derived slug when none is supplied.
*/
func TestService_CreateGenre(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo())

	explicit, err := service.CreateGenre(context.Background(), adminClaims(),
		genre.CreateInput{Name: "Drama", Slug: "theatre"})
	require.NoError(t, err)
	assert.Equal(t, "theatre", explicit.Slug)

	derived, err := service.CreateGenre(context.Background(), adminClaims(),
		genre.CreateInput{Name: "Rock & Roll"})
	require.NoError(t, err)
	assert.Equal(t, "rock-roll", derived.Slug)
}

/*
TestService_CreateGenre_Rejections verifies the 400 for a malformed
explicit slug and the 409 for a duplicate one.
*/
func TestService_CreateGenre_Rejections(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo())

	_, err := service.CreateGenre(context.Background(), adminClaims(),
		genre.CreateInput{Name: "Drama", Slug: "Not A Slug"})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)

	_, err = service.CreateGenre(context.Background(), adminClaims(),
		genre.CreateInput{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)

	_, err = service.CreateGenre(context.Background(), adminClaims(),
		genre.CreateInput{Name: "Dramatic", Slug: "drama"})
	assert.True(t, apperr.IsConflict(err))
}

/*
TestService_AdminGate verifies that genre writes reject non-admins.
*/
func TestService_AdminGate(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo())
	moderator := &sec.AuthClaims{UserID: "m1", Username: "mod", Role: string(sec.RoleModerator)}

	_, err := service.CreateGenre(context.Background(), moderator,
		genre.CreateInput{Name: "Drama"})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)

	err = service.DeleteGenre(context.Background(), nil, "drama")
	appError = apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
}

/*
TestService_DeleteGenre verifies removal by slug and the 404 for a slug
that never existed.
*/
func TestService_DeleteGenre(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	service := newTestService(repo)

	_, err := service.CreateGenre(context.Background(), adminClaims(),
		genre.CreateInput{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteGenre(context.Background(), adminClaims(), "drama"))
	assert.Empty(t, repo.bySlug)

	err = service.DeleteGenre(context.Background(), adminClaims(), "drama")
	assert.True(t, apperr.IsNotFound(err))
}
