// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/revio/internal/platform/middleware"
	requestutil "github.com/taibuivan/revio/internal/platform/request"
	"github.com/taibuivan/revio/internal/platform/respond"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/pkg/convert"
	"github.com/taibuivan/revio/pkg/pagination"
	"github.com/taibuivan/revio/pkg/query"
)

// Handler implements the HTTP layer for the title catalog.
type Handler struct {
	titleService *Service
}

// NewHandler constructs a new title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{titleService: service}
}

// Routes returns a [chi.Router] configured with the title endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listTitles)
	router.Get("/{id}", handler.getTitle)

	// Catalog writes are admin-only; the route gate mirrors the policy check.
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Post("/", handler.createTitle)
		admin.Patch("/{id}", handler.updateTitle)
		admin.Delete("/{id}", handler.deleteTitle)
	})

	return router
}

/*
GET /api/v1/titles.

Description: Enumerates titles with combinable filters and a sort key.

Request:
  - name: string (query, substring filter)
  - year: int (query, exact match)
  - category: string (query, category slug)
  - genre: string (query, comma-separated genre slugs; matches ANY)
  - sort: string (query, name|year|rating with optional "-" prefix)
  - page, limit: int (query)

Response:
  - 200: []Title: Paginated titles, each with category, genres, and rating
*/
func (handler *Handler) listTitles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	values := request.URL.Query()

	filter := Filter{
		Name:         values.Get("name"),
		CategorySlug: values.Get("category"),
		GenreSlugs:   query.StringSlice(values.Get("genre")),
		Sort:         values.Get("sort"),
	}
	if rawYear := values.Get("year"); rawYear != "" {
		year := convert.ToInt(rawYear)
		filter.Year = &year
	}

	titles, total, err := handler.titleService.ListTitles(
		request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/titles/{id}.

Response:
  - 200: Title: The title with its current aggregate rating (null when unreviewed)
  - 404: Unknown or malformed id
*/
func (handler *Handler) getTitle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.titleService.GetTitle(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// createTitleRequest defines the expected JSON payload for adding a title.
type createTitleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"` // Category slug
	Genre       []string `json:"genre"`    // Genre slugs
}

/*
POST /api/v1/titles.

Description: Adds a title to the catalog (admin-only). Category and genre are
referenced by slug and must already exist.

Response:
  - 201: Title: The created title (rating null)
  - 400: Validation failures, including unknown taxonomy slugs
  - 401/403: Authorization failures
*/
func (handler *Handler) createTitle(writer http.ResponseWriter, request *http.Request) {
	var input createTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.titleService.CreateTitle(request.Context(), requestutil.Claims(request), CreateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// updateTitleRequest defines the patchable title fields. Absent fields are
// untouched; a present genre list replaces the whole set.
type updateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

/*
PATCH /api/v1/titles/{id}.

Response:
  - 200: Title: The updated title with its current rating
  - 400/401/403/404: Validation, authorization, or lookup failures
*/
func (handler *Handler) updateTitle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.titleService.UpdateTitle(request.Context(), requestutil.Claims(request), id, UpdateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/titles/{id}.

Response:
  - 204: Title removed; reviews and comments cascaded
  - 401/403: Authorization failures
  - 404: Unknown id
*/
func (handler *Handler) deleteTitle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.titleService.DeleteTitle(request.Context(), requestutil.Claims(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
