// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the works being reviewed: the heart of the catalog.

A title carries one optional category, any number of genres, and an aggregate
rating derived from its reviews. The rating is never stored on the title row;
it is the live mean of review scores, cached in Redis and recomputed on demand.

# Architecture

  - Entities: Title, with nested Category and Genres for transport.
  - Rating: Read-through Redis cache, invalidated by review mutations.
  - Security: Reading is public; creating, updating, deleting require admin.
*/
package title

import (
	"context"

	"github.com/taibuivan/revio/internal/catalog/category"
	"github.com/taibuivan/revio/internal/catalog/genre"
)

// # Domain Entities

// Title represents a single reviewable work in the catalog.
//
// Rating is nil when the title has no reviews yet; JSON then renders null,
// which is distinct from any numeric score.
type Title struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Description string             `json:"description"`
	Rating      *float64           `json:"rating"`
	Category    *category.Category `json:"category"`
	Genres      []genre.Genre      `json:"genre"`
}

// Filter narrows a title listing. Zero values mean "no constraint".
type Filter struct {
	Name         string   // Substring match on name
	Year         *int     // Exact release year
	CategorySlug string   // Exact category slug
	GenreSlugs   []string // Titles carrying ANY of these genres
	Sort         string   // name, year, rating; "-" prefix for descending
}

// # Repository Contract

// Repository defines the persistence contract for titles.
type Repository interface {
	/*
		List enumerates titles matching the filter, each hydrated with its
		category, genres, and current aggregate rating.

		Parameters:
		  - filter: Filter
		  - limit, offset: int (Pagination window)

		Returns:
		  - []*Title: Page of fully hydrated titles
		  - int: Total matching count
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error)

	/*
		GetByID retrieves a title with its category and genres.

		The rating is NOT populated here; the service layer overlays it from
		the cache or via ComputeRating.

		Returns:
		  - *Title: Hydrated entity (Rating nil)
		  - error: apperr.NotFound or storage failures
	*/
	GetByID(context context.Context, id int64) (*Title, error)

	/*
		ComputeRating calculates the live mean review score for a title.

		Returns:
		  - *float64: The mean, or nil when the title has no reviews
		  - error: Storage failures
	*/
	ComputeRating(context context.Context, id int64) (*float64, error)

	/*
		Create persists a new title and its genre set in one transaction.

		Parameters:
		  - title: *Title (CategoryID is taken from title.Category, may be nil)
		  - genreIDs: []int64 (Resolved genre IDs to attach)

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, title *Title, genreIDs []int64) error

	/*
		Update rewrites a title's scalar fields and, when replaceGenres is
		set, swaps its entire genre set in the same transaction.

		Returns:
		  - error: apperr.NotFound when the row is gone, or storage failures
	*/
	Update(context context.Context, title *Title, genreIDs []int64, replaceGenres bool) error

	/*
		Delete removes a title. Its reviews and comments cascade.

		Returns:
		  - error: apperr.NotFound when no row matched, or storage failures
	*/
	Delete(context context.Context, id int64) error
}

// # Cache Contract

// RatingCache is the volatile store for aggregate ratings.
//
// A lost invalidation is tolerable: entries carry a TTL that bounds staleness.
type RatingCache interface {
	// Get returns the cached rating and whether the cache held an entry.
	// A hit may carry a nil rating (title known to have no reviews).
	Get(context context.Context, titleID int64) (*float64, bool)

	// Set stores the rating (nil included) under the title's key.
	Set(context context.Context, titleID int64, rating *float64)

	// Invalidate drops the cached rating after a review mutation.
	Invalidate(context context.Context, titleID int64)
}
