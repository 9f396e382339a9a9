package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/revio/internal/platform/request"
	"github.com/taibuivan/revio/internal/platform/respond"
	"github.com/taibuivan/revio/pkg/pagination"
)

// Handler implements the HTTP layer for comments.
//
// The router is mounted under /titles/{titleID}/reviews/{reviewID}/comments,
// so every handler resolves both parents from the outer route context.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// Routes returns a [chi.Router] configured with the comment endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listComments)
	router.Post("/", handler.createComment)
	router.Get("/{commentID}", handler.getComment)
	router.Patch("/{commentID}", handler.updateComment)
	router.Delete("/{commentID}", handler.deleteComment)

	return router
}

// parentChain extracts and validates the titleID/reviewID pair every comment
// endpoint is nested under.
func parentChain(request *http.Request) (titleID, reviewID int64, err error) {
	titleID, err = requestutil.IntParam(request, "titleID", "Title")
	if err != nil {
		return 0, 0, err
	}
	reviewID, err = requestutil.IntParam(request, "reviewID", "Review")
	if err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}

/*
GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments.

Response:
  - 200: []Comment: Paginated comments, oldest first
  - 404: Broken parent chain
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := parentChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	comments, total, err := handler.commentService.ListComments(
		request.Context(), titleID, reviewID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.

Response:
  - 200: Comment: The comment
  - 404: Broken parent chain or unknown comment
*/
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := parentChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	commentID, err := requestutil.IntParam(request, "commentID", "Comment")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.commentService.GetComment(request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// commentRequest defines the JSON payload for creating a comment.
type commentRequest struct {
	Text string `json:"text"`
}

/*
POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments.

Response:
  - 201: Comment: The created comment
  - 400/401/404: Validation, authentication, or parent-chain failures
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := parentChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.commentService.CreateComment(
		request.Context(), requestutil.Claims(request), titleID, reviewID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// updateCommentRequest defines the patchable comment fields.
type updateCommentRequest struct {
	Text *string `json:"text"`
}

/*
PATCH /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.

Response:
  - 200: Comment: The updated comment
  - 400/401/403/404: Validation, authorization, or lookup failures
*/
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := parentChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	commentID, err := requestutil.IntParam(request, "commentID", "Comment")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.commentService.UpdateComment(
		request.Context(), requestutil.Claims(request), titleID, reviewID, commentID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.

Response:
  - 204: Comment removed
  - 401/403/404: Authorization or lookup failures
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := parentChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	commentID, err := requestutil.IntParam(request, "commentID", "Comment")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.commentService.DeleteComment(
		request.Context(), requestutil.Claims(request), titleID, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
