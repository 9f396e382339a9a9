// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/revio/internal/catalog/category"
	"github.com/taibuivan/revio/internal/catalog/genre"
	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/config"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/internal/platform/validate"
	"github.com/taibuivan/revio/pkg/pointer"
)

// Service implements title use cases.
type Service struct {
	repo       Repository
	categories category.Repository
	genres     genre.Repository
	ratings    RatingCache
	limits     config.Limits
	logger     *slog.Logger
}

// NewService constructs a new title [Service].
func NewService(
	repo Repository,
	categories category.Repository,
	genres genre.Repository,
	ratings RatingCache,
	limits config.Limits,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		genres:     genres,
		ratings:    ratings,
		limits:     limits,
		logger:     logger,
	}
}

// # Read Side

// ListTitles returns a page of titles matching the filter, each with its
// live aggregate rating.
func (service *Service) ListTitles(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
GetTitle retrieves a single title with its aggregate rating.

Description: The rating is read through the Redis cache; on a miss it is
recomputed from the review table and cached with a TTL.

Returns:
  - *Title: Fully hydrated title
  - error: NotFound or storage failures
*/
func (service *Service) GetTitle(context context.Context, id int64) (*Title, error) {
	found, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	rating, hit := service.ratings.Get(context, id)
	if !hit {
		rating, err = service.repo.ComputeRating(context, id)
		if err != nil {
			return nil, fmt.Errorf("title_service_rating_failed: %w", err)
		}
		service.ratings.Set(context, id, rating)
	}

	found.Rating = rating
	return found, nil
}

// # Write Side

// CreateInput holds the data required to add a title to the catalog.
type CreateInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

/*
CreateTitle validates and persists a new title (admin-only).

Description: Category and genre slugs must resolve to existing taxonomy
entries; an unknown slug is a validation failure, not a 404, because the
missing resource is in the payload rather than the path.

Returns:
  - *Title: The created title (Rating nil: no reviews yet)
  - error: Forbidden, validation, or storage failures
*/
func (service *Service) CreateTitle(context context.Context, actor *sec.AuthClaims, input CreateInput) (*Title, error) {
	if err := sec.Authorize(actor, sec.OpCreate, sec.ResourceTitle, ""); err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	v.Required("name", input.Name).
		MaxLen("name", input.Name, service.limits.NameMaxLength).
		Custom("year", input.Year == 0, "This field is required").
		Custom("year", input.Year > time.Now().Year(), "Cannot be later than the current year").
		Required("category", input.CategorySlug)
	if err := v.Err(); err != nil {
		return nil, err
	}

	titleCategory, err := service.resolveCategory(context, input.CategorySlug)
	if err != nil {
		return nil, err
	}

	titleGenres, genreIDs, err := service.resolveGenres(context, input.GenreSlugs)
	if err != nil {
		return nil, err
	}

	created := &Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    titleCategory,
		Genres:      titleGenres,
	}

	if err := service.repo.Create(context, created, genreIDs); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateInput holds the patchable fields of a title. Nil means "leave as is".
type UpdateInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string // Non-nil replaces the whole genre set
}

/*
UpdateTitle applies a partial update to a title (admin-only).

A supplied genre list replaces the existing set atomically; an absent list
leaves the set untouched.

Returns:
  - *Title: The updated title with its current rating
  - error: Forbidden, NotFound, validation, or storage failures
*/
func (service *Service) UpdateTitle(context context.Context, actor *sec.AuthClaims, id int64, input UpdateInput) (*Title, error) {
	if err := sec.Authorize(actor, sec.OpUpdate, sec.ResourceTitle, ""); err != nil {
		return nil, err
	}

	current, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	if input.Name != nil {
		v.Required("name", *input.Name).MaxLen("name", *input.Name, service.limits.NameMaxLength)
	}
	if input.Year != nil {
		v.Custom("year", *input.Year == 0, "This field is required").
			Custom("year", *input.Year > time.Now().Year(), "Cannot be later than the current year")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	current.Name = pointer.Fallback(input.Name, current.Name)
	current.Year = pointer.Fallback(input.Year, current.Year)
	current.Description = pointer.Fallback(input.Description, current.Description)

	if input.CategorySlug != nil {
		newCategory, err := service.resolveCategory(context, *input.CategorySlug)
		if err != nil {
			return nil, err
		}
		current.Category = newCategory
	}

	replaceGenres := false
	var genreIDs []int64
	if input.GenreSlugs != nil {
		newGenres, ids, err := service.resolveGenres(context, *input.GenreSlugs)
		if err != nil {
			return nil, err
		}
		current.Genres = newGenres
		genreIDs = ids
		replaceGenres = true
	}

	if err := service.repo.Update(context, current, genreIDs, replaceGenres); err != nil {
		return nil, err
	}

	return service.GetTitle(context, id)
}

/*
DeleteTitle removes a title and, by cascade, all of its reviews and comments.

Returns:
  - error: Forbidden, NotFound, or storage failures
*/
func (service *Service) DeleteTitle(context context.Context, actor *sec.AuthClaims, id int64) error {
	if err := sec.Authorize(actor, sec.OpDelete, sec.ResourceTitle, ""); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.ratings.Invalidate(context, id)
	return nil
}

// # Taxonomy Resolution

// resolveCategory maps a category slug from the payload to the entity.
// An unknown slug is reported against the category field.
func (service *Service) resolveCategory(context context.Context, slug string) (*category.Category, error) {
	found, err := service.categories.GetBySlug(context, slug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, validate.RequiredError("category", fmt.Sprintf("Unknown category slug: `%s`", slug))
		}
		return nil, err
	}
	return found, nil
}

// resolveGenres maps the payload's genre slugs to entities and IDs.
// Duplicate slugs collapse to one attachment.
func (service *Service) resolveGenres(context context.Context, slugs []string) ([]genre.Genre, []int64, error) {
	genres := make([]genre.Genre, 0, len(slugs))
	ids := make([]int64, 0, len(slugs))
	seen := make(map[int64]struct{}, len(slugs))

	for _, slug := range slugs {
		found, err := service.genres.GetBySlug(context, slug)
		if err != nil {
			if apperr.IsNotFound(err) {
				return nil, nil, validate.RequiredError("genre", fmt.Sprintf("Unknown genre slug: `%s`", slug))
			}
			return nil, nil, err
		}
		if _, dup := seen[found.ID]; dup {
			continue
		}
		seen[found.ID] = struct{}{}
		genres = append(genres, *found)
		ids = append(ids, found.ID)
	}

	return genres, ids, nil
}
