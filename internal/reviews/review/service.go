// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"

	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/internal/platform/validate"
	"github.com/taibuivan/revio/pkg/pointer"
)

// DefaultScore is applied when a review is created without an explicit score.
const DefaultScore = 5

// Score bounds, inclusive.
const (
	MinScore = 1
	MaxScore = 10
)

// RatingInvalidator drops a title's cached aggregate rating. Every review
// mutation goes through it so title reads never serve a stale mean.
type RatingInvalidator interface {
	Invalidate(context context.Context, titleID int64)
}

// Service implements review use cases.
type Service struct {
	repo    Repository
	ratings RatingInvalidator
	logger  *slog.Logger
}

// NewService constructs a new review [Service].
func NewService(repo Repository, ratings RatingInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		ratings: ratings,
		logger:  logger,
	}
}

// # Read Side

/*
ListReviews enumerates a title's reviews in publication order.

Returns:
  - []*Review: Page of reviews, oldest first
  - int: Total count
  - error: NotFound when the title itself is unknown, or storage failures
*/
func (service *Service) ListReviews(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, 0, err
	}

	return service.repo.ListByTitle(context, titleID, limit, offset)
}

// GetReview retrieves one review scoped to its title.
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	found, err := service.repo.GetByID(context, titleID, reviewID)
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound("Review")
	}
	return found, err
}

// # Write Side

// CreateInput holds the data for a new review. A nil Score falls back to
// [DefaultScore].
type CreateInput struct {
	Text  string
	Score *int
}

/*
CreateReview validates and persists a caller's review of a title.

Description: Each author gets at most one review per title. The rule is
enforced at the storage constraint, which settles races; the violation is
translated to the same 400 a payload problem would produce.

Returns:
  - *Review: The created review
  - error: Unauthorized, NotFound (unknown title), or validation failures
*/
func (service *Service) CreateReview(context context.Context, actor *sec.AuthClaims, titleID int64, input CreateInput) (*Review, error) {
	if err := sec.Authorize(actor, sec.OpCreate, sec.ResourceReview, ""); err != nil {
		return nil, err
	}

	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	score := pointer.Fallback(input.Score, DefaultScore)

	v := &validate.Validator{}
	v.Required("text", input.Text).
		Range("score", score, MinScore, MaxScore)
	if err := v.Err(); err != nil {
		return nil, err
	}

	created := &Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     input.Text,
		Score:    score,
	}

	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.ratings.Invalidate(context, titleID)
	return created, nil
}

// UpdateInput holds the patchable review fields. Nil means "leave as is".
type UpdateInput struct {
	Text  *string
	Score *int
}

/*
UpdateReview applies a partial update to a review.

Only the author, a moderator, or an admin may edit. Authorship never moves:
a moderator's edit keeps the original author.

Returns:
  - *Review: The updated review
  - error: Authorization, NotFound, or validation failures
*/
func (service *Service) UpdateReview(context context.Context, actor *sec.AuthClaims, titleID, reviewID int64, input UpdateInput) (*Review, error) {
	current, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := sec.Authorize(actor, sec.OpUpdate, sec.ResourceReview, current.AuthorID); err != nil {
		return nil, err
	}

	current.Text = pointer.Fallback(input.Text, current.Text)
	current.Score = pointer.Fallback(input.Score, current.Score)

	v := &validate.Validator{}
	v.Required("text", current.Text).
		Range("score", current.Score, MinScore, MaxScore)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, current); err != nil {
		return nil, err
	}

	service.ratings.Invalidate(context, titleID)
	return current, nil
}

/*
DeleteReview removes a review and, by cascade, its comments.

Returns:
  - error: Authorization, NotFound, or storage failures
*/
func (service *Service) DeleteReview(context context.Context, actor *sec.AuthClaims, titleID, reviewID int64) error {
	current, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := sec.Authorize(actor, sec.OpDelete, sec.ResourceReview, current.AuthorID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, reviewID); err != nil {
		return err
	}

	service.ratings.Invalidate(context, titleID)
	return nil
}

// requireTitle 404s on the missing parent before any other outcome.
func (service *Service) requireTitle(context context.Context, titleID int64) error {
	exists, err := service.repo.TitleExists(context, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}
