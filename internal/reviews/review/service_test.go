// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/internal/reviews/review"
)

// # Test Doubles

// fakeRepo is an in-memory review.Repository keyed by review ID.
type fakeRepo struct {
	titles  map[int64]bool
	reviews map[int64]*review.Review
	nextID  int64
}

func newFakeRepo(titleIDs ...int64) *fakeRepo {
	titles := make(map[int64]bool, len(titleIDs))
	for _, id := range titleIDs {
		titles[id] = true
	}
	return &fakeRepo{
		titles:  titles,
		reviews: make(map[int64]*review.Review),
		nextID:  1,
	}
}

func (repo *fakeRepo) ListByTitle(_ context.Context, titleID int64, limit, offset int) ([]*review.Review, int, error) {
	var matched []*review.Review
	for _, entry := range repo.reviews {
		if entry.TitleID == titleID {
			matched = append(matched, entry)
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

func (repo *fakeRepo) GetByID(_ context.Context, titleID, reviewID int64) (*review.Review, error) {
	entry, ok := repo.reviews[reviewID]
	if !ok || entry.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	clone := *entry
	return &clone, nil
}

func (repo *fakeRepo) Create(_ context.Context, entry *review.Review) error {
	for _, existing := range repo.reviews {
		if existing.TitleID == entry.TitleID && existing.AuthorID == entry.AuthorID {
			return apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: "title", Message: "You have already reviewed this title"})
		}
	}
	entry.ID = repo.nextID
	repo.nextID++
	entry.PubDate = time.Now().UTC()
	clone := *entry
	repo.reviews[entry.ID] = &clone
	return nil
}

func (repo *fakeRepo) Update(_ context.Context, entry *review.Review) error {
	if _, ok := repo.reviews[entry.ID]; !ok {
		return apperr.NotFound("Review")
	}
	clone := *entry
	repo.reviews[entry.ID] = &clone
	return nil
}

func (repo *fakeRepo) Delete(_ context.Context, reviewID int64) error {
	if _, ok := repo.reviews[reviewID]; !ok {
		return apperr.NotFound("Review")
	}
	delete(repo.reviews, reviewID)
	return nil
}

func (repo *fakeRepo) TitleExists(_ context.Context, titleID int64) (bool, error) {
	return repo.titles[titleID], nil
}

// fakeInvalidator records which titles had their cached rating dropped.
type fakeInvalidator struct {
	invalidated []int64
}

func (cache *fakeInvalidator) Invalidate(_ context.Context, titleID int64) {
	cache.invalidated = append(cache.invalidated, titleID)
}

// # Fixtures

func newTestService(repo *fakeRepo, cache *fakeInvalidator) *review.Service {
	return review.NewService(repo, cache, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func userClaims(id, username string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: id, Username: username, Role: string(sec.RoleUser)}
}

func moderatorClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "mod-1", Username: "mod", Role: string(sec.RoleModerator)}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// # Tests

/*
TestService_CreateReview verifies the happy path: an authenticated user
reviews an existing title and the title's cached rating is invalidated.
*/
func TestService_CreateReview(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(10)
	cache := &fakeInvalidator{}
	service := newTestService(repo, cache)

	created, err := service.CreateReview(context.Background(), userClaims("u1", "jane"), 10,
		review.CreateInput{Text: "Loved it", Score: intPtr(9)})

	require.NoError(t, err)
	assert.Equal(t, int64(10), created.TitleID)
	assert.Equal(t, "u1", created.AuthorID)
	assert.Equal(t, "jane", created.Author)
	assert.Equal(t, 9, created.Score)
	assert.NotZero(t, created.ID)
	assert.Equal(t, []int64{10}, cache.invalidated)
}

/*
TestService_CreateReview_DefaultScore verifies that an omitted score falls
back to the documented default.
*/
func TestService_CreateReview_DefaultScore(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo(10), &fakeInvalidator{})

	created, err := service.CreateReview(context.Background(), userClaims("u1", "jane"), 10,
		review.CreateInput{Text: "Fine"})

	require.NoError(t, err)
	assert.Equal(t, review.DefaultScore, created.Score)
}

/*
TestService_CreateReview_ScoreBounds verifies the inclusive 1..10 range.
*/
func TestService_CreateReview_ScoreBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		score int
		valid bool
	}{
		{"below minimum", 0, false},
		{"minimum", 1, true},
		{"maximum", 10, true},
		{"above maximum", 11, false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			service := newTestService(newFakeRepo(10), &fakeInvalidator{})

			_, err := service.CreateReview(context.Background(), userClaims("u1", "jane"), 10,
				review.CreateInput{Text: "x", Score: intPtr(testCase.score)})

			if testCase.valid {
				assert.NoError(t, err)
			} else {
				appError := apperr.As(err)
				require.NotNil(t, appError)
				assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
			}
		})
	}
}

/*
TestService_CreateReview_UnknownTitle verifies that the missing parent
title 404s before validation runs.
*/
func TestService_CreateReview_UnknownTitle(t *testing.T) {
	t.Parallel()

	cache := &fakeInvalidator{}
	service := newTestService(newFakeRepo(), cache)

	_, err := service.CreateReview(context.Background(), userClaims("u1", "jane"), 99,
		review.CreateInput{Text: "x"})

	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, cache.invalidated)
}

/*
TestService_CreateReview_Anonymous verifies the 401 for unauthenticated
callers, issued before the title is even looked up.
*/
func TestService_CreateReview_Anonymous(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo(10), &fakeInvalidator{})

	_, err := service.CreateReview(context.Background(), nil, 10, review.CreateInput{Text: "x"})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
}

/*
TestService_CreateReview_Duplicate verifies the one-review-per-title rule:
a second review by the same author is a 400, not a 409.
*/
func TestService_CreateReview_Duplicate(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo(10), &fakeInvalidator{})
	author := userClaims("u1", "jane")

	_, err := service.CreateReview(context.Background(), author, 10, review.CreateInput{Text: "first"})
	require.NoError(t, err)

	_, err = service.CreateReview(context.Background(), author, 10, review.CreateInput{Text: "second"})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}

/*
TestService_UpdateReview_Authorization verifies the mutation gate: the
owner and a moderator may edit, another user gets 403, anonymous 401.
*/
func TestService_UpdateReview_Authorization(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) (*review.Service, *fakeInvalidator, int64) {
		t.Helper()
		repo := newFakeRepo(10)
		cache := &fakeInvalidator{}
		service := newTestService(repo, cache)

		created, err := service.CreateReview(context.Background(), userClaims("u1", "jane"), 10,
			review.CreateInput{Text: "original", Score: intPtr(7)})
		require.NoError(t, err)
		cache.invalidated = nil
		return service, cache, created.ID
	}

	t.Run("owner may edit", func(t *testing.T) {
		service, cache, reviewID := seed(t)

		updated, err := service.UpdateReview(context.Background(), userClaims("u1", "jane"), 10, reviewID,
			review.UpdateInput{Text: strPtr("revised")})

		require.NoError(t, err)
		assert.Equal(t, "revised", updated.Text)
		assert.Equal(t, 7, updated.Score, "omitted score must be preserved")
		assert.Equal(t, []int64{10}, cache.invalidated)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		service, cache, reviewID := seed(t)

		_, err := service.UpdateReview(context.Background(), userClaims("u2", "john"), 10, reviewID,
			review.UpdateInput{Text: strPtr("hijack")})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)
		assert.Empty(t, cache.invalidated)
	})

	t.Run("moderator may edit without taking authorship", func(t *testing.T) {
		service, _, reviewID := seed(t)

		updated, err := service.UpdateReview(context.Background(), moderatorClaims(), 10, reviewID,
			review.UpdateInput{Score: intPtr(3)})

		require.NoError(t, err)
		assert.Equal(t, "u1", updated.AuthorID)
		assert.Equal(t, 3, updated.Score)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		service, _, reviewID := seed(t)

		_, err := service.UpdateReview(context.Background(), nil, 10, reviewID,
			review.UpdateInput{Text: strPtr("x")})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
	})
}

/*
TestService_DeleteReview verifies owner deletion, the moderator override,
and the cache invalidation that follows either.
*/
func TestService_DeleteReview(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(10)
	cache := &fakeInvalidator{}
	service := newTestService(repo, cache)

	created, err := service.CreateReview(context.Background(), userClaims("u1", "jane"), 10,
		review.CreateInput{Text: "x"})
	require.NoError(t, err)
	cache.invalidated = nil

	require.NoError(t, service.DeleteReview(context.Background(), moderatorClaims(), 10, created.ID))
	assert.Equal(t, []int64{10}, cache.invalidated)

	_, err = service.GetReview(context.Background(), 10, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_GetReview_TitleScoping verifies that a review is unreachable
through a different title's URL even when the review ID exists.
*/
func TestService_GetReview_TitleScoping(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo(10, 20), &fakeInvalidator{})

	created, err := service.CreateReview(context.Background(), userClaims("u1", "jane"), 10,
		review.CreateInput{Text: "x"})
	require.NoError(t, err)

	_, err = service.GetReview(context.Background(), 20, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}
