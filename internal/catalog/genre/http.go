package genre

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/revio/internal/platform/middleware"
	requestutil "github.com/taibuivan/revio/internal/platform/request"
	"github.com/taibuivan/revio/internal/platform/respond"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/pkg/pagination"
)

// Handler implements the HTTP layer for the genre taxonomy.
type Handler struct {
	genreService *Service
}

// NewHandler constructs a new genre [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{genreService: service}
}

// Routes returns a [chi.Router] configured with the genre endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listGenres)

	// Catalog writes are admin-only; the route gate mirrors the policy check.
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Post("/", handler.createGenre)
		admin.Delete("/{slug}", handler.deleteGenre)
	})

	return router
}

/*
GET /api/v1/genres.

Request:
  - search: string (query, optional name filter)
  - page, limit: int (query, optional)

Response:
  - 200: []Genre: Paginated genres ordered by name
*/
func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	genres, total, err := handler.genreService.ListGenres(
		request.Context(), search, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, genres, pagination.NewMeta(params.Page, params.Limit, total))
}

// createGenreRequest defines the expected JSON payload for genre creation.
type createGenreRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

/*
POST /api/v1/genres.

Description: Adds a genre (admin-only). Slug is derived from the name when omitted.

Response:
  - 201: Genre: The created genre
  - 400/401/403: Validation or authorization failures
  - 409: Slug already exists
*/
func (handler *Handler) createGenre(writer http.ResponseWriter, request *http.Request) {
	var input createGenreRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.genreService.CreateGenre(
		request.Context(), requestutil.Claims(request), CreateInput{Name: input.Name, Slug: input.Slug})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
DELETE /api/v1/genres/{slug}.

Response:
  - 204: Genre removed and detached from titles
  - 401/403: Authorization failures
  - 404: Unknown slug
*/
func (handler *Handler) deleteGenre(writer http.ResponseWriter, request *http.Request) {
	genreSlug := requestutil.Param(request, "slug")

	if err := handler.genreService.DeleteGenre(
		request.Context(), requestutil.Claims(request), genreSlug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
