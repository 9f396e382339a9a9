// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package user provides the HTTP delivery layer for account management.

The /users collection is the administrative surface; /users/me is the
self-service surface available to any authenticated caller.
*/
package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/revio/internal/platform/middleware"
	requestutil "github.com/taibuivan/revio/internal/platform/request"
	"github.com/taibuivan/revio/internal/platform/respond"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/pkg/pagination"
)

// Handler implements the HTTP layer for user administration and profiles.
type Handler struct {
	userService *Service
}

// NewHandler constructs a new user [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{userService: service}
}

// Routes returns a [chi.Router] configured with the user domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self-service profile. Registered before the wildcard so the literal
	// segment wins; DELETE /users/me intentionally has no route.
	router.Group(func(me chi.Router) {
		me.Use(middleware.RequireAuth)
		me.Get("/me", handler.getMe)
		me.Patch("/me", handler.updateMe)
	})

	// Administration. The route gate mirrors the service-level policy check.
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Get("/", handler.listUsers)
		admin.Post("/", handler.createUser)
		admin.Get("/{username}", handler.getUser)
		admin.Patch("/{username}", handler.updateUser)
		admin.Delete("/{username}", handler.deleteUser)
	})

	return router
}

// # Administration Endpoints

/*
GET /api/v1/users.

Description: Enumerates accounts, optionally filtered by username substring.

Request:
  - search: string (query, optional)
  - page, limit: int (query, optional)

Response:
  - 200: []User: Paginated accounts ordered by username
  - 401/403: Authentication/authorization failures
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	users, total, err := handler.userService.ListUsers(
		request.Context(), requestutil.Claims(request), search, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

// createUserRequest defines the expected JSON payload for account provisioning.
type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

/*
POST /api/v1/users.

Description: Provisions a new account with an explicit role (admin-only).

Response:
  - 201: User: The created account
  - 400: Validation failures
  - 409: Username or email already registered
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.userService.CreateUser(request.Context(), requestutil.Claims(request), CreateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
GET /api/v1/users/{username}.

Response:
  - 200: User: The account
  - 404: Unknown username
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	found, err := handler.userService.GetUser(request.Context(), requestutil.Claims(request), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// updateUserRequest defines the patchable account fields. Absent fields are untouched.
type updateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

/*
PATCH /api/v1/users/{username}.

Description: Applies a partial update, including role changes (admin-only).

Response:
  - 200: User: The updated account
  - 400/404/409: Validation, lookup, or uniqueness failures
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.userService.UpdateUser(request.Context(), requestutil.Claims(request), username, UpdateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/users/{username}.

Response:
  - 204: Account removed, authored content cascaded
  - 404: Unknown username
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	if err := handler.userService.DeleteUser(request.Context(), requestutil.Claims(request), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Self-Service Endpoints

/*
GET /api/v1/users/me.

Response:
  - 200: User: The caller's own profile
  - 401: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	me, err := handler.userService.GetMe(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, me)
}

/*
PATCH /api/v1/users/me.

Description: Updates the caller's own profile. A role field in the payload is
ignored; the stored role always survives a self-service patch.

Response:
  - 200: User: The updated profile
  - 400/401/409: Validation, authentication, or uniqueness failures
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// input.Role is decoded but never forwarded.
	updated, err := handler.userService.UpdateMe(request.Context(), userID, UpdateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
