package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/revio/internal/platform/request"
	"github.com/taibuivan/revio/internal/platform/respond"
	"github.com/taibuivan/revio/pkg/pagination"
)

// Handler implements the HTTP layer for reviews.
//
// The router is mounted under /titles/{titleID}/reviews, so every handler
// resolves the parent title from the outer route context.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns a [chi.Router] configured with the review endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)
	router.Get("/{reviewID}", handler.getReview)
	router.Patch("/{reviewID}", handler.updateReview)
	router.Delete("/{reviewID}", handler.deleteReview)

	return router
}

/*
GET /api/v1/titles/{titleID}/reviews.

Response:
  - 200: []Review: Paginated reviews, oldest first
  - 404: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	reviews, total, err := handler.reviewService.ListReviews(
		request.Context(), titleID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/titles/{titleID}/reviews/{reviewID}.

Response:
  - 200: Review: The review
  - 404: Unknown title or review (including a review under a different title)
*/
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	reviewID, err := requestutil.IntParam(request, "reviewID", "Review")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.reviewService.GetReview(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// createReviewRequest defines the expected JSON payload for a new review.
// An absent score defaults to the midpoint.
type createReviewRequest struct {
	Text  string `json:"text"`
	Score *int   `json:"score"`
}

/*
POST /api/v1/titles/{titleID}/reviews.

Response:
  - 201: Review: The created review
  - 400: Validation failures, including "already reviewed"
  - 401: Authentication required
  - 404: Unknown title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.reviewService.CreateReview(
		request.Context(), requestutil.Claims(request), titleID,
		CreateInput{Text: input.Text, Score: input.Score})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// updateReviewRequest defines the patchable review fields.
type updateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

/*
PATCH /api/v1/titles/{titleID}/reviews/{reviewID}.

Response:
  - 200: Review: The updated review
  - 400/401/403/404: Validation, authorization, or lookup failures
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	reviewID, err := requestutil.IntParam(request, "reviewID", "Review")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.reviewService.UpdateReview(
		request.Context(), requestutil.Claims(request), titleID, reviewID,
		UpdateInput{Text: input.Text, Score: input.Score})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/titles/{titleID}/reviews/{reviewID}.

Response:
  - 204: Review removed; its comments cascaded
  - 401/403/404: Authorization or lookup failures
*/
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	reviewID, err := requestutil.IntParam(request, "reviewID", "Review")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.DeleteReview(
		request.Context(), requestutil.Claims(request), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
