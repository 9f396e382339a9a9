// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package genre manages the catalog's genre taxonomy.

Genres are the many-to-many classification of titles ("Drama", "Sci-Fi").
Like categories they are addressed by slug in the API and referenced by ID
internally; unlike categories, deleting a genre detaches it from every title.

# Security

Reading is public; creating and deleting require admin.
*/
package genre

import (
	"context"
)

// # Domain Entities

// Genre is one of possibly many classifications attached to a title.
type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// # Repository Contract

// Repository defines the persistence contract for genres.
type Repository interface {
	/*
		List enumerates genres ordered by name.

		Parameters:
		  - search: string (Optional name substring filter)
		  - limit, offset: int (Pagination window)

		Returns:
		  - []*Genre: Page of genres
		  - int: Total matching count
		  - error: Storage failures
	*/
	List(context context.Context, search string, limit, offset int) ([]*Genre, int, error)

	/*
		GetBySlug retrieves a single genre by its slug.

		Returns:
		  - *Genre: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	GetBySlug(context context.Context, slug string) (*Genre, error)

	/*
		Create persists a new genre.

		Returns:
		  - error: apperr.Conflict on a duplicate slug, or storage failures
	*/
	Create(context context.Context, genre *Genre) error

	/*
		DeleteBySlug removes a genre and detaches it from every title.

		Returns:
		  - error: apperr.NotFound when no row matched, or storage failures
	*/
	DeleteBySlug(context context.Context, slug string) error
}
