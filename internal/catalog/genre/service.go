package genre

import (
	"context"
	"log/slog"

	"github.com/taibuivan/revio/internal/platform/config"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/internal/platform/validate"
	"github.com/taibuivan/revio/pkg/slug"
)

// Service implements genre use cases.
type Service struct {
	repo   Repository
	limits config.Limits
	logger *slog.Logger
}

// NewService constructs a new genre [Service].
func NewService(repo Repository, limits config.Limits, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		limits: limits,
		logger: logger,
	}
}

// ListGenres returns a page of genres, optionally filtered by name.
func (service *Service) ListGenres(context context.Context, search string, limit, offset int) ([]*Genre, int, error) {
	return service.repo.List(context, search, limit, offset)
}

// CreateInput holds the data required to add a genre.
type CreateInput struct {
	Name string
	Slug string // Derived from Name when empty
}

// CreateGenre validates and persists a new genre (admin-only).
func (service *Service) CreateGenre(context context.Context, actor *sec.AuthClaims, input CreateInput) (*Genre, error) {
	if err := sec.Authorize(actor, sec.OpCreate, sec.ResourceGenre, ""); err != nil {
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

	created := &Genre{Name: input.Name, Slug: input.Slug}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	return created, nil
}

// DeleteGenre removes a genre by slug (admin-only). Titles that carried it
// simply lose the classification.
func (service *Service) DeleteGenre(context context.Context, actor *sec.AuthClaims, genreSlug string) error {
	if err := sec.Authorize(actor, sec.OpDelete, sec.ResourceGenre, ""); err != nil {
		return err
	}

	return service.repo.DeleteBySlug(context, genreSlug)
}
