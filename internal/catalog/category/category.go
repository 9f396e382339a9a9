// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package category manages the catalog's category taxonomy.

A category is the single broad classification of a title ("Movies", "Books").
Categories are addressed by slug in the API, referenced by ID internally.

# Security

Reading is public; creating and deleting require admin.
*/
package category

import (
	"context"
)

// # Domain Entities

// Category classifies a title into exactly one broad group.
type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// # Repository Contract

// Repository defines the persistence contract for categories.
type Repository interface {
	/*
		List enumerates categories ordered by name.

		Parameters:
		  - search: string (Optional name substring filter)
		  - limit, offset: int (Pagination window)

		Returns:
		  - []*Category: Page of categories
		  - int: Total matching count
		  - error: Storage failures
	*/
	List(context context.Context, search string, limit, offset int) ([]*Category, int, error)

	/*
		GetBySlug retrieves a single category by its slug.

		Returns:
		  - *Category: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	GetBySlug(context context.Context, slug string) (*Category, error)

	/*
		Create persists a new category.

		Returns:
		  - error: apperr.Conflict on a duplicate slug, or storage failures
	*/
	Create(context context.Context, category *Category) error

	/*
		DeleteBySlug removes a category. Titles keep existing with a null category.

		Returns:
		  - error: apperr.NotFound when no row matched, or storage failures
	*/
	DeleteBySlug(context context.Context, slug string) error
}
