// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/config"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/internal/platform/validate"
	"github.com/taibuivan/revio/pkg/pointer"
	"github.com/taibuivan/revio/pkg/uuid"
)

// Service implements account administration and self-service use cases.
type Service struct {
	repo   Repository
	limits config.Limits
	logger *slog.Logger
}

// NewService constructs a new user [Service].
func NewService(repo Repository, limits config.Limits, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		limits: limits,
		logger: logger,
	}
}

// # Administration

// CreateInput holds the data an admin supplies when provisioning an account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string // Empty defaults to the standard user role
}

/*
CreateUser provisions an account on behalf of an administrator.

Unlike self-service signup, admin-created accounts may carry any valid role
from the start. The new user still authenticates through the normal
confirmation-code flow.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (The caller; must be admin)
  - input: CreateInput

Returns:
  - *User: Created entity
  - error: Forbidden, validation failures, or field-specific Conflict
*/
func (service *Service) CreateUser(context context.Context, actor *sec.AuthClaims, input CreateInput) (*User, error) {
	if err := sec.Authorize(actor, sec.OpCreate, sec.ResourceUser, ""); err != nil {
		return nil, err
	}

	role := sec.UserRole(input.Role)
	if input.Role == "" {
		role = sec.RoleUser
	}

	v := &validate.Validator{}
	v.Username("username", input.Username).
		MaxLen("username", input.Username, service.limits.UsernameMaxLength).
		Required("email", input.Email).
		Email("email", input.Email).
		MaxLen("email", input.Email, service.limits.EmailMaxLength).
		MaxLen("first_name", input.FirstName, service.limits.NameMaxLength).
		MaxLen("last_name", input.LastName, service.limits.NameMaxLength).
		Custom("role", !role.IsValid(), "Must be one of: user, moderator, admin")
	if err := v.Err(); err != nil {
		return nil, err
	}

	user := &User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	}

	if err := service.repo.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
ListUsers enumerates accounts for administrators.

Parameters:
  - actor: *sec.AuthClaims (Must be admin)
  - search: string (Optional username substring filter)
  - limit, offset: int

Returns:
  - []*User: Page of accounts ordered by username
  - int: Total matching count
  - error: Forbidden or storage failures
*/
func (service *Service) ListUsers(context context.Context, actor *sec.AuthClaims, search string, limit, offset int) ([]*User, int, error) {
	if err := sec.Authorize(actor, sec.OpRead, sec.ResourceUser, ""); err != nil {
		return nil, 0, err
	}

	return service.repo.List(context, search, limit, offset)
}

/*
GetUser retrieves a single account by username for administrators.

Returns:
  - *User: Hydrated account
  - error: Forbidden, NotFound, or storage failures
*/
func (service *Service) GetUser(context context.Context, actor *sec.AuthClaims, username string) (*User, error) {
	if err := sec.Authorize(actor, sec.OpRead, sec.ResourceUser, ""); err != nil {
		return nil, err
	}

	user, err := service.repo.FindByUsername(context, username)
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound("User")
	}
	return user, err
}

// UpdateInput holds the patchable fields of an account. Nil means "leave as is".
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

/*
UpdateUser applies a partial update to an account on behalf of an administrator.

Changing username, email, or role rewrites the state a confirmation code is
derived from, so any outstanding code for the account stops verifying.

Returns:
  - *User: The updated entity
  - error: Forbidden, NotFound, validation, or Conflict failures
*/
func (service *Service) UpdateUser(context context.Context, actor *sec.AuthClaims, username string, input UpdateInput) (*User, error) {
	if err := sec.Authorize(actor, sec.OpUpdate, sec.ResourceUser, ""); err != nil {
		return nil, err
	}

	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	v := &validate.Validator{}
	if input.Username != nil {
		v.Username("username", *input.Username).
			MaxLen("username", *input.Username, service.limits.UsernameMaxLength)
	}
	if input.Email != nil {
		v.Required("email", *input.Email).
			Email("email", *input.Email).
			MaxLen("email", *input.Email, service.limits.EmailMaxLength)
	}
	if input.FirstName != nil {
		v.MaxLen("first_name", *input.FirstName, service.limits.NameMaxLength)
	}
	if input.LastName != nil {
		v.MaxLen("last_name", *input.LastName, service.limits.NameMaxLength)
	}
	if input.Role != nil {
		v.Custom("role", !sec.UserRole(*input.Role).IsValid(), "Must be one of: user, moderator, admin")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	user.Username = pointer.Fallback(input.Username, user.Username)
	user.Email = pointer.Fallback(input.Email, user.Email)
	user.FirstName = pointer.Fallback(input.FirstName, user.FirstName)
	user.LastName = pointer.Fallback(input.LastName, user.LastName)
	user.Bio = pointer.Fallback(input.Bio, user.Bio)
	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
DeleteUser permanently removes an account and, by cascade, everything it authored.

Returns:
  - error: Forbidden, NotFound, or storage failures
*/
func (service *Service) DeleteUser(context context.Context, actor *sec.AuthClaims, username string) error {
	if err := sec.Authorize(actor, sec.OpDelete, sec.ResourceUser, ""); err != nil {
		return err
	}

	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("User")
		}
		return err
	}

	return service.repo.Delete(context, user.ID)
}

// # Self-Service (/me)

/*
GetMe retrieves the caller's own profile.

Returns:
  - *User: The caller's account
  - error: NotFound (stale token for a deleted account) or storage failures
*/
func (service *Service) GetMe(context context.Context, userID string) (*User, error) {
	return service.repo.FindByID(context, userID)
}

/*
UpdateMe applies a partial update to the caller's own profile.

The role field is deliberately absent from the input: a caller can never
change their own role through this path, whatever their current role is.
The stored role is carried through unchanged.

Returns:
  - *User: The updated account
  - error: NotFound, validation, or Conflict failures
*/
func (service *Service) UpdateMe(context context.Context, userID string, input UpdateInput) (*User, error) {
	user, err := service.repo.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	if input.Username != nil {
		v.Username("username", *input.Username).
			MaxLen("username", *input.Username, service.limits.UsernameMaxLength)
	}
	if input.Email != nil {
		v.Required("email", *input.Email).
			Email("email", *input.Email).
			MaxLen("email", *input.Email, service.limits.EmailMaxLength)
	}
	if input.FirstName != nil {
		v.MaxLen("first_name", *input.FirstName, service.limits.NameMaxLength)
	}
	if input.LastName != nil {
		v.MaxLen("last_name", *input.LastName, service.limits.NameMaxLength)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	user.Username = pointer.Fallback(input.Username, user.Username)
	user.Email = pointer.Fallback(input.Email, user.Email)
	user.FirstName = pointer.Fallback(input.FirstName, user.FirstName)
	user.LastName = pointer.Fallback(input.LastName, user.LastName)
	user.Bio = pointer.Fallback(input.Bio, user.Bio)
	// Role is preserved: input.Role is ignored on the /me path.

	if err := service.repo.Update(context, user); err != nil {
		return nil, fmt.Errorf("user_service_update_me_failed: %w", err)
	}

	return user, nil
}
