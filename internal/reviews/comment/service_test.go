// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

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
	"github.com/taibuivan/revio/internal/reviews/comment"
)

// # Test Doubles

// reviewKey identifies a review within its title, mirroring the URL chain.
type reviewKey struct {
	titleID  int64
	reviewID int64
}

// fakeRepo is an in-memory comment.Repository with a configurable set of
// valid (title, review) parent chains.
type fakeRepo struct {
	reviews  map[reviewKey]bool
	comments map[int64]*comment.Comment
	nextID   int64
}

func newFakeRepo(chains ...reviewKey) *fakeRepo {
	reviews := make(map[reviewKey]bool, len(chains))
	for _, chain := range chains {
		reviews[chain] = true
	}
	return &fakeRepo{
		reviews:  reviews,
		comments: make(map[int64]*comment.Comment),
		nextID:   1,
	}
}

func (repo *fakeRepo) ListByReview(_ context.Context, reviewID int64, limit, offset int) ([]*comment.Comment, int, error) {
	var matched []*comment.Comment
	for _, entry := range repo.comments {
		if entry.ReviewID == reviewID {
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

func (repo *fakeRepo) GetByID(_ context.Context, reviewID, commentID int64) (*comment.Comment, error) {
	entry, ok := repo.comments[commentID]
	if !ok || entry.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	clone := *entry
	return &clone, nil
}

func (repo *fakeRepo) Create(_ context.Context, entry *comment.Comment) error {
	entry.ID = repo.nextID
	repo.nextID++
	entry.PubDate = time.Now().UTC()
	clone := *entry
	repo.comments[entry.ID] = &clone
	return nil
}

func (repo *fakeRepo) Update(_ context.Context, entry *comment.Comment) error {
	if _, ok := repo.comments[entry.ID]; !ok {
		return apperr.NotFound("Comment")
	}
	clone := *entry
	repo.comments[entry.ID] = &clone
	return nil
}

func (repo *fakeRepo) Delete(_ context.Context, commentID int64) error {
	if _, ok := repo.comments[commentID]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(repo.comments, commentID)
	return nil
}

func (repo *fakeRepo) ReviewExists(_ context.Context, titleID, reviewID int64) (bool, error) {
	return repo.reviews[reviewKey{titleID: titleID, reviewID: reviewID}], nil
}

// # Fixtures

func newTestService(repo *fakeRepo) *comment.Service {
	return comment.NewService(repo, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func userClaims(id, username string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: id, Username: username, Role: string(sec.RoleUser)}
}

func strPtr(v string) *string { return &v }

// # Tests

/*
TestService_CreateComment verifies the happy path, and that the same
caller may comment on the same review repeatedly.
*/
func TestService_CreateComment(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo(reviewKey{titleID: 10, reviewID: 5}))
	author := userClaims("u1", "jane")

	first, err := service.CreateComment(context.Background(), author, 10, 5, "Agreed!")
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.ReviewID)
	assert.Equal(t, "jane", first.Author)

	second, err := service.CreateComment(context.Background(), author, 10, 5, "And one more thing.")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

/*
TestService_CreateComment_BrokenChain verifies the 404 when the (title,
review) parent chain does not hold: unknown review, or a real review
addressed through the wrong title.
*/
func TestService_CreateComment_BrokenChain(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo(reviewKey{titleID: 10, reviewID: 5}))
	author := userClaims("u1", "jane")

	_, err := service.CreateComment(context.Background(), author, 10, 99, "x")
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.CreateComment(context.Background(), author, 20, 5, "x")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_CreateComment_Gates verifies the 401 for anonymous callers
and the empty-text 400.
*/
func TestService_CreateComment_Gates(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo(reviewKey{titleID: 10, reviewID: 5}))

	_, err := service.CreateComment(context.Background(), nil, 10, 5, "x")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)

	_, err = service.CreateComment(context.Background(), userClaims("u1", "jane"), 10, 5, "")
	appError = apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}

/*
TestService_UpdateComment_Authorization verifies the mutation gate: owner
edits pass, another user gets 403, a moderator overrides without taking
authorship.
*/
func TestService_UpdateComment_Authorization(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(reviewKey{titleID: 10, reviewID: 5})
	service := newTestService(repo)

	created, err := service.CreateComment(context.Background(), userClaims("u1", "jane"), 10, 5, "original")
	require.NoError(t, err)

	_, err = service.UpdateComment(context.Background(), userClaims("u2", "john"), 10, 5, created.ID, strPtr("hijack"))
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)

	updated, err := service.UpdateComment(context.Background(), userClaims("u1", "jane"), 10, 5, created.ID, strPtr("revised"))
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Text)

	moderator := &sec.AuthClaims{UserID: "m1", Username: "mod", Role: string(sec.RoleModerator)}
	updated, err = service.UpdateComment(context.Background(), moderator, 10, 5, created.ID, strPtr("moderated"))
	require.NoError(t, err)
	assert.Equal(t, "u1", updated.AuthorID)
}

/*
TestService_DeleteComment verifies owner deletion and the subsequent 404.
*/
func TestService_DeleteComment(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo(reviewKey{titleID: 10, reviewID: 5}))
	author := userClaims("u1", "jane")

	created, err := service.CreateComment(context.Background(), author, 10, 5, "x")
	require.NoError(t, err)

	require.NoError(t, service.DeleteComment(context.Background(), author, 10, 5, created.ID))

	_, err = service.GetComment(context.Background(), 10, 5, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}
