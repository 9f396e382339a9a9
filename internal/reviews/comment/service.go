package comment

import (
	"context"
	"log/slog"

	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/internal/platform/validate"
	"github.com/taibuivan/revio/pkg/pointer"
)

// Service implements comment use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new comment [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Read Side

/*
ListComments enumerates a review's comments in publication order.

Returns:
  - []*Comment: Page of comments, oldest first
  - int: Total count
  - error: NotFound when the (title, review) chain is broken, or storage failures
*/
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	return service.repo.ListByReview(context, reviewID, limit, offset)
}

// GetComment retrieves one comment scoped to its review and title.
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	found, err := service.repo.GetByID(context, reviewID, commentID)
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound("Comment")
	}
	return found, err
}

// # Write Side

/*
CreateComment validates and persists a reply under a review.

There is no per-user limit; the same caller may comment repeatedly.

Returns:
  - *Comment: The created comment
  - error: Unauthorized, NotFound (broken parent chain), or validation failures
*/
func (service *Service) CreateComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID int64, text string) (*Comment, error) {
	if err := sec.Authorize(actor, sec.OpCreate, sec.ResourceComment, ""); err != nil {
		return nil, err
	}

	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	v.Required("text", text)
	if err := v.Err(); err != nil {
		return nil, err
	}

	created := &Comment{
		ReviewID: reviewID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     text,
	}

	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	return created, nil
}

/*
UpdateComment rewrites a comment's text.

Only the author, a moderator, or an admin may edit; authorship never moves.

Returns:
  - *Comment: The updated comment
  - error: Authorization, NotFound, or validation failures
*/
func (service *Service) UpdateComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID, commentID int64, text *string) (*Comment, error) {
	current, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := sec.Authorize(actor, sec.OpUpdate, sec.ResourceComment, current.AuthorID); err != nil {
		return nil, err
	}

	current.Text = pointer.Fallback(text, current.Text)

	v := &validate.Validator{}
	v.Required("text", current.Text)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, current); err != nil {
		return nil, err
	}

	return current, nil
}

/*
DeleteComment removes a comment.

Returns:
  - error: Authorization, NotFound, or storage failures
*/
func (service *Service) DeleteComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID, commentID int64) error {
	current, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := sec.Authorize(actor, sec.OpDelete, sec.ResourceComment, current.AuthorID); err != nil {
		return err
	}

	return service.repo.Delete(context, commentID)
}

// requireReview 404s when the (title, review) parent chain does not hold.
func (service *Service) requireReview(context context.Context, titleID, reviewID int64) error {
	exists, err := service.repo.ReviewExists(context, titleID, reviewID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Review")
	}
	return nil
}
