// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review implements the review system: scored opinions on catalog titles.

Each user holds at most one review per title; the score (1-10) feeds the
title's aggregate rating. Reviews are always addressed through their title
(/titles/{id}/reviews/...), never as a top-level collection.

# Security

Reading is public. Creating requires authentication; editing and deleting
require ownership, moderator, or admin.
*/
package review

import (
	"context"
	"time"
)

// # Domain Entities

// Review is one user's scored opinion of one title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"title_id"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"` // Author's username, joined in for transport
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// # Repository Contract

// Repository defines the persistence contract for reviews.
type Repository interface {
	/*
		ListByTitle enumerates a title's reviews in publication order.

		Parameters:
		  - titleID: int64
		  - limit, offset: int (Pagination window)

		Returns:
		  - []*Review: Page of reviews, oldest first
		  - int: Total count for the title
		  - error: Storage failures
	*/
	ListByTitle(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error)

	/*
		GetByID retrieves one review scoped to its title.

		The title scoping makes a review unreachable through another title's
		URL even when the bare review ID exists.

		Returns:
		  - *Review: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	GetByID(context context.Context, titleID, reviewID int64) (*Review, error)

	/*
		Create persists a new review.

		Returns:
		  - error: A validation error when the author already reviewed the
		    title (unique constraint), or storage failures
	*/
	Create(context context.Context, review *Review) error

	/*
		Update rewrites a review's text and score.

		Returns:
		  - error: apperr.NotFound when the row is gone, or storage failures
	*/
	Update(context context.Context, review *Review) error

	/*
		Delete removes a review. Its comments cascade.

		Returns:
		  - error: apperr.NotFound when no row matched, or storage failures
	*/
	Delete(context context.Context, reviewID int64) error

	/*
		TitleExists reports whether a catalog title exists.

		Review endpoints 404 on the missing PARENT before any other check.

		Returns:
		  - bool: Existence
		  - error: Storage failures
	*/
	TitleExists(context context.Context, titleID int64) (bool, error)
}
