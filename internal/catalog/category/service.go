package category

import (
	"context"
	"log/slog"

	"github.com/taibuivan/revio/internal/platform/config"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/internal/platform/validate"
	"github.com/taibuivan/revio/pkg/slug"
)

// Service implements category use cases.
type Service struct {
	repo   Repository
	limits config.Limits
	logger *slog.Logger
}

// NewService constructs a new category [Service].
func NewService(repo Repository, limits config.Limits, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		limits: limits,
		logger: logger,
	}
}

// ListCategories returns a page of categories, optionally filtered by name.
func (service *Service) ListCategories(context context.Context, search string, limit, offset int) ([]*Category, int, error) {
	return service.repo.List(context, search, limit, offset)
}

// CreateInput holds the data required to add a category.
type CreateInput struct {
	Name string
	Slug string // Derived from Name when empty
}

// CreateCategory validates and persists a new category (admin-only).
//
// When no slug is supplied, one is derived from the name. An explicit slug
// must already be in canonical form.
func (service *Service) CreateCategory(context context.Context, actor *sec.AuthClaims, input CreateInput) (*Category, error) {
	if err := sec.Authorize(actor, sec.OpCreate, sec.ResourceCategory, ""); err != nil {
		return nil, err
	}

	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	v := &validate.Validator{}
	v.Required("name", input.Name).
		MaxLen("name", input.Name, service.limits.NameMaxLength).
		Slug("slug", input.Slug).
		MaxLen("slug", input.Slug, service.limits.SlugMaxLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	created := &Category{Name: input.Name, Slug: input.Slug}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	return created, nil
}

// DeleteCategory removes a category by slug (admin-only). Titles previously
// classified under it survive with a null category.
func (service *Service) DeleteCategory(context context.Context, actor *sec.AuthClaims, categorySlug string) error {
	if err := sec.Authorize(actor, sec.OpDelete, sec.ResourceCategory, ""); err != nil {
		return err
	}

	return service.repo.DeleteBySlug(context, categorySlug)
}
