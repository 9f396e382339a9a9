// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment implements threaded discussion under reviews.

Comments are plain text replies attached to exactly one review and addressed
through the full parent chain (/titles/{id}/reviews/{id}/comments/...).
Unlike reviews there is no per-user limit: a user may comment as often as
they like.

# Security

Reading is public. Creating requires authentication; editing and deleting
require ownership, moderator, or admin.
*/
package comment

import (
	"context"
	"time"
)

// # Domain Entities

// Comment is a single reply under a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"review_id"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"` // Author's username, joined in for transport
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// # Repository Contract

// Repository defines the persistence contract for comments.
type Repository interface {
	/*
		ListByReview enumerates a review's comments in publication order.

		Returns:
		  - []*Comment: Page of comments, oldest first
		  - int: Total count for the review
		  - error: Storage failures
	*/
	ListByReview(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error)

	/*
		GetByID retrieves one comment scoped to its review.

		Returns:
		  - *Comment: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	GetByID(context context.Context, reviewID, commentID int64) (*Comment, error)

	/*
		Create persists a new comment.

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, comment *Comment) error

	/*
		Update rewrites a comment's text.

		Returns:
		  - error: apperr.NotFound when the row is gone, or storage failures
	*/
	Update(context context.Context, comment *Comment) error

	/*
		Delete removes a comment.

		Returns:
		  - error: apperr.NotFound when no row matched, or storage failures
	*/
	Delete(context context.Context, commentID int64) error

	/*
		ReviewExists reports whether a review exists under the given title.

		Comment endpoints 404 on a broken parent chain before any other check.

		Returns:
		  - bool: Existence of the (title, review) pair
		  - error: Storage failures
	*/
	ReviewExists(context context.Context, titleID, reviewID int64) (bool, error)
}
