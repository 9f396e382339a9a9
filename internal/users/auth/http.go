// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/revio/internal/platform/request"
	"github.com/taibuivan/revio/internal/platform/respond"
)

// Handler implements the HTTP layer for signup and token exchange.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the auth domain's endpoints.
// Both endpoints are public by definition.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signUp)
	router.Post("/token", handler.issueToken)

	return router
}

// signUpRequest defines the expected JSON payload for registration.
type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// signUpResponse echoes the registered identity pair. The confirmation code
// itself only ever travels by email.
type signUpResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

/*
POST /api/v1/auth/signup.

Description: Registers a (username, email) pair and emails a confirmation
code. Repeating the exact pair re-delivers the code instead of failing.

Response:
  - 200: signUpResponse: The registered pair (idempotent success)
  - 400: Validation failures (reserved username, bad email, ...)
  - 409: Username or email already bound to a different pair
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.SignUp(request.Context(), SignUpInput{
		Username: input.Username,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signUpResponse{Username: account.Username, Email: account.Email})
}

// issueTokenRequest defines the expected JSON payload for the code exchange.
type issueTokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

// issueTokenResponse carries the signed access token.
type issueTokenResponse struct {
	Token string `json:"token"`
}

/*
POST /api/v1/auth/token.

Description: Exchanges a (username, confirmation code) pair for a JWT.

Response:
  - 200: issueTokenResponse: Signed access token
  - 400: Missing fields or a code that does not match the account state
  - 404: Unknown username
*/
func (handler *Handler) issueToken(writer http.ResponseWriter, request *http.Request) {
	var input issueTokenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.IssueToken(request.Context(), input.Username, input.ConfirmationCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, issueTokenResponse{Token: token})
}
