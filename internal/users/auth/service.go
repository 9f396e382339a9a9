// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the passwordless signup and token exchange flow.

There are no passwords anywhere in the system. A caller registers a
(username, email) pair, receives a confirmation code by email, and exchanges
(username, code) for a signed JWT access token. Codes are derived from the
account's persisted state and are never stored.

Architecture:

  - Service: Orchestrates signup idempotency and the code/token exchange.
  - Codes: HMAC-derived via the sec package; re-derivable, nothing consumed.
  - Delivery: Outbound mail is strictly best-effort and off the request path.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/config"
	"github.com/taibuivan/revio/internal/platform/constants"
	"github.com/taibuivan/revio/internal/platform/mail"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/internal/platform/validate"
	"github.com/taibuivan/revio/internal/users/user"
	"github.com/taibuivan/revio/pkg/uuid"
)

// mailDeliveryTimeout bounds the background delivery attempt after the
// request that triggered it has already completed.
const mailDeliveryTimeout = 15 * time.Second

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The effective role embedded into the token.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// CodeProvider defines the contract for deriving and checking confirmation codes.
type CodeProvider interface {
	// Issue derives the confirmation code for the given account state.
	Issue(state sec.ConfirmationState) string

	// Verify reports whether code matches the account state, in constant time.
	Verify(state sec.ConfirmationState, code string) bool
}

// Service implements the signup and token exchange use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to code derivation,
// signup idempotency, or token minting must be reviewed by the security team.
type Service struct {
	userRepository user.Repository
	tokenProvider  TokenProvider
	codeProvider   CodeProvider
	mailer         mail.Sender
	limits         config.Limits
	logger         *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo user.Repository,
	tokenProv TokenProvider,
	codeProv CodeProvider,
	mailer mail.Sender,
	limits config.Limits,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		codeProvider:   codeProv,
		mailer:         mailer,
		limits:         limits,
		logger:         logger,
	}
}

// # Signup Flow

// SignUpInput holds the identity pair required to enroll or re-confirm.
type SignUpInput struct {
	Username string
	Email    string
}

/*
SignUp registers a new account, or re-delivers the confirmation code when the
exact (username, email) pair is already registered.

Description: The operation is idempotent on the exact pair: repeating it never
errors and always results in exactly one account plus a fresh code delivery.
A partial match (username taken with a different email, or vice versa) is a
field-specific conflict.

Parameters:
  - context: context.Context
  - input: SignUpInput

Returns:
  - *user.User: The enrolled (or existing) account
  - error: Validation failures or field-specific Conflict
*/
func (service *Service) SignUp(context context.Context, input SignUpInput) (*user.User, error) {
	v := &validate.Validator{}
	v.Username("username", input.Username).
		MaxLen("username", input.Username, service.limits.UsernameMaxLength).
		Required("email", input.Email).
		Email("email", input.Email).
		MaxLen("email", input.Email, service.limits.EmailMaxLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	// Exact-pair idempotency: an existing account with the same username AND
	// email just gets its code re-delivered.
	existing, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		if existing.Email != input.Email {
			return nil, apperr.Conflict("Username is already taken",
				apperr.FieldError{Field: "username", Message: "Already in use"})
		}
		service.deliverCode(existing)
		return existing, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	// Username is free; the email must be too.
	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered",
			apperr.FieldError{Field: "email", Message: "Already in use"})
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	// Construct the new account. Time-sortable ID to prevent PG index fragmentation.
	account := &user.User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	if err := service.userRepository.Create(context, account); err != nil {
		// A concurrent signup may have won the race after our pre-checks;
		// the store already translated that into a field-specific conflict.
		return nil, err
	}

	service.deliverCode(account)
	return account, nil
}

// # Token Exchange

/*
IssueToken exchanges a (username, confirmation code) pair for a JWT access token.

Description: The code is re-derived from the account's current state and
compared in constant time. Verification consumes nothing; the same code keeps
working until the account state changes.

Parameters:
  - context: context.Context
  - username: string
  - code: string

Returns:
  - string: Signed access token
  - error: NotFound for an unknown username, validation failure for a bad code
*/
func (service *Service) IssueToken(context context.Context, username, code string) (string, error) {
	v := &validate.Validator{}
	v.Required("username", username).Required("confirmation_code", code)
	if err := v.Err(); err != nil {
		return "", err
	}

	// Unknown username is 404, not 400: the original contract distinguishes
	// "no such account" from "wrong code for an existing account".
	account, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.NotFound("User")
		}
		return "", fmt.Errorf("auth_service_token_lookup_failed: %w", err)
	}

	if !service.codeProvider.Verify(confirmationState(account), code) {
		return "", validate.RequiredError("confirmation_code", "Invalid confirmation code")
	}

	// Staff/superuser accounts are promoted to admin inside the token so a
	// single claim drives every policy decision.
	token, err := service.tokenProvider.GenerateAccessToken(
		account.ID, account.Username, string(account.EffectiveRole()), constants.AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return token, nil
}

// # Code Delivery

// deliverCode derives the account's current confirmation code and ships it by
// email off the request path. Delivery failure is logged, never surfaced: the
// caller can always re-trigger delivery by signing up again.
func (service *Service) deliverCode(account *user.User) {
	code := service.codeProvider.Issue(confirmationState(account))

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), mailDeliveryTimeout)
		defer cancel()

		body := fmt.Sprintf(
			"Hello %s,\n\nYour confirmation code is: %s\n\nExchange it at POST /api/v1/auth/token to receive an access token.\n",
			account.Username, code)

		if err := service.mailer.Send(sendCtx, account.Email, "Your Revio confirmation code", body); err != nil {
			service.logger.Error("confirmation_code_delivery_failed",
				slog.String("username", account.Username),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// confirmationState maps an account to the exact state slice its confirmation
// code is bound to. Any account mutation shifts UpdatedAt and invalidates
// outstanding codes.
func confirmationState(account *user.User) sec.ConfirmationState {
	return sec.ConfirmationState{
		UserID:    account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Role:      string(account.Role),
		UpdatedAt: account.UpdatedAt.Unix(),
	}
}
