package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/revio/internal/platform/middleware"
	requestutil "github.com/taibuivan/revio/internal/platform/request"
	"github.com/taibuivan/revio/internal/platform/respond"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/pkg/pagination"
)

// Handler implements the HTTP layer for the category taxonomy.
type Handler struct {
	categoryService *Service
}

// NewHandler constructs a new category [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{categoryService: service}
}

// Routes returns a [chi.Router] configured with the category endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCategories)

	// Catalog writes are admin-only; the route gate mirrors the policy check.
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Post("/", handler.createCategory)
		admin.Delete("/{slug}", handler.deleteCategory)
	})

	return router
}

/*
GET /api/v1/categories.

Request:
  - search: string (query, optional name filter)
  - page, limit: int (query, optional)

Response:
  - 200: []Category: Paginated categories ordered by name
*/
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	categories, total, err := handler.categoryService.ListCategories(
		request.Context(), search, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, categories, pagination.NewMeta(params.Page, params.Limit, total))
}

// createCategoryRequest defines the expected JSON payload for category creation.
type createCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

/*
POST /api/v1/categories.

Description: Adds a category (admin-only). Slug is derived from the name
when omitted.

Response:
  - 201: Category: The created category
  - 400/401/403: Validation or authorization failures
  - 409: Slug already exists
*/
func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input createCategoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.categoryService.CreateCategory(
		request.Context(), requestutil.Claims(request), CreateInput{Name: input.Name, Slug: input.Slug})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
DELETE /api/v1/categories/{slug}.

Response:
  - 204: Category removed; titles keep existing uncategorized
  - 401/403: Authorization failures
  - 404: Unknown slug
*/
func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	categorySlug := requestutil.Param(request, "slug")

	if err := handler.categoryService.DeleteCategory(
		request.Context(), requestutil.Claims(request), categorySlug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
