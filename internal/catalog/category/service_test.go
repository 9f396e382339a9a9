// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revio/internal/catalog/category"
	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/config"
	"github.com/taibuivan/revio/internal/platform/sec"
)

// fakeRepo is an in-memory category.Repository keyed by slug.
type fakeRepo struct {
	bySlug map[string]*category.Category
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bySlug: make(map[string]*category.Category), nextID: 1}
}

func (repo *fakeRepo) List(_ context.Context, _ string, _, _ int) ([]*category.Category, int, error) {
	var all []*category.Category
	for _, entry := range repo.bySlug {
		all = append(all, entry)
	}
	return all, len(all), nil
}

func (repo *fakeRepo) GetBySlug(_ context.Context, slug string) (*category.Category, error) {
	entry, ok := repo.bySlug[slug]
	if !ok {
		return nil, apperr.NotFound("Category")
	}
	return entry, nil
}

func (repo *fakeRepo) Create(_ context.Context, entry *category.Category) error {
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
		return apperr.NotFound("Category")
	}
	delete(repo.bySlug, slug)
	return nil
}

func newTestService(repo *fakeRepo) *category.Service {
	limits := config.Limits{NameMaxLength: 256, SlugMaxLength: 50}
	return category.NewService(repo, limits, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func adminClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "a1", Username: "root", Role: string(sec.RoleAdmin)}
}

/*
TestService_CreateCategory verifies creation with an explicit slug and
the derived slug when none is supplied.
*/
func TestService_CreateCategory(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo())

	explicit, err := service.CreateCategory(context.Background(), adminClaims(),
		category.CreateInput{Name: "Movies", Slug: "film"})
	require.NoError(t, err)
	assert.Equal(t, "film", explicit.Slug)

	derived, err := service.CreateCategory(context.Background(), adminClaims(),
		category.CreateInput{Name: "Science Fiction"})
	require.NoError(t, err)
	assert.Equal(t, "science-fiction", derived.Slug)
}

/*
TestService_CreateCategory_Rejections verifies the 400 for a malformed
explicit slug and the 409 for a duplicate one.
*/
func TestService_CreateCategory_Rejections(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo())

	_, err := service.CreateCategory(context.Background(), adminClaims(),
		category.CreateInput{Name: "Movies", Slug: "Not A Slug"})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)

	_, err = service.CreateCategory(context.Background(), adminClaims(),
		category.CreateInput{Name: "Movies", Slug: "film"})
	require.NoError(t, err)

	_, err = service.CreateCategory(context.Background(), adminClaims(),
		category.CreateInput{Name: "Cinema", Slug: "film"})
	assert.True(t, apperr.IsConflict(err))
}

/*
TestService_AdminGate verifies that category writes reject non-admins.
*/
func TestService_AdminGate(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo())
	moderator := &sec.AuthClaims{UserID: "m1", Username: "mod", Role: string(sec.RoleModerator)}

	_, err := service.CreateCategory(context.Background(), moderator,
		category.CreateInput{Name: "Movies"})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)

	err = service.DeleteCategory(context.Background(), nil, "film")
	appError = apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
}
