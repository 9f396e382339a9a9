// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package user implements account administration and self-service profiles.

It owns the User entity shared by the whole platform: the auth package mints
tokens for it, the reviews packages attach authorship to it, and admins manage
it through the /users surface.

# Architecture

  - Entities: User.
  - Addressing: Accounts are addressed by username in the API, by UUID internally.
  - Security: Administration endpoints are admin-only; /me is self-service.
*/
package user

import (
	"context"
	"time"

	"github.com/taibuivan/revio/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account on the platform.
//
// IsStaff and IsSuperuser are operational flags set out-of-band (bootstrap
// scripts, direct DB grants). They never travel over the API but participate
// in the admin decision via [User.IsAdmin].
type User struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Bio         string       `json:"bio"`
	Role        sec.UserRole `json:"role"`
	IsStaff     bool         `json:"-"`
	IsSuperuser bool         `json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsAdmin reports whether the account carries full administrative power.
// The stored role is not the only path: staff and superuser flags grant
// admin regardless of role.
func (user *User) IsAdmin() bool {
	return user.Role == sec.RoleAdmin || user.IsStaff || user.IsSuperuser
}

// IsModerator reports whether the account may moderate any review or comment.
// Admins moderate implicitly.
func (user *User) IsModerator() bool {
	return user.Role == sec.RoleModerator || user.IsAdmin()
}

// EffectiveRole resolves the role embedded into access tokens.
// Staff/superuser accounts are promoted to admin at token time so a single
// claim drives every policy decision.
func (user *User) EffectiveRole() sec.UserRole {
	if user.IsAdmin() {
		return sec.RoleAdmin
	}
	return user.Role
}

// # Repository Contract

// Repository defines the persistence contract for user accounts.
type Repository interface {
	/*
		Create persists a brand new account.

		Parameters:
		  - context: context.Context
		  - user: *User (ID must be pre-assigned; timestamps are set by storage)

		Returns:
		  - error: Field-specific apperr.Conflict on username/email collision,
		    or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID retrieves an account by its UUID.

		Returns:
		  - *User: Hydrated account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername retrieves an account by its unique username.

		Returns:
		  - *User: Hydrated account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail retrieves an account by its unique email address.

		Returns:
		  - *User: Hydrated account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		List enumerates accounts ordered by username.

		Parameters:
		  - search: string (Optional username substring filter)
		  - limit, offset: int (Pagination window)

		Returns:
		  - []*User: Page of accounts
		  - int: Total matching count
		  - error: Storage failures
	*/
	List(context context.Context, search string, limit, offset int) ([]*User, int, error)

	/*
		Update persists the mutable fields of an existing account.

		Touching the record bumps updatedat, which implicitly invalidates any
		outstanding confirmation code bound to the previous state.

		Returns:
		  - error: Field-specific apperr.Conflict on username/email collision,
		    apperr.NotFound when the row is gone, or storage failures
	*/
	Update(context context.Context, user *User) error

	/*
		Delete permanently removes an account.

		Reviews and comments authored by the account are removed by cascade.

		Returns:
		  - error: apperr.NotFound when no row matched, or storage failures
	*/
	Delete(context context.Context, id string) error
}
