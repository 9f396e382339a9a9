// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/sec"
)

/*
TestAllow_Catalog verifies the catalog gate: reads are public for every
role, writes require admin.
*/
func TestAllow_Catalog(t *testing.T) {
	t.Parallel()

	resources := []sec.Resource{sec.ResourceCategory, sec.ResourceGenre, sec.ResourceTitle}
	writes := []sec.Operation{sec.OpCreate, sec.OpUpdate, sec.OpDelete}

	for _, resource := range resources {
		// Public reads, including anonymous.
		assert.True(t, sec.Allow(sec.RoleAnonymous, "", sec.OpRead, resource, ""))
		assert.True(t, sec.Allow(sec.RoleUser, "u1", sec.OpRead, resource, ""))

		for _, op := range writes {
			assert.True(t, sec.Allow(sec.RoleAdmin, "a1", op, resource, ""),
				"admin must be allowed %s on %s", op, resource)
			assert.False(t, sec.Allow(sec.RoleModerator, "m1", op, resource, ""),
				"moderator must be denied %s on %s", op, resource)
			assert.False(t, sec.Allow(sec.RoleUser, "u1", op, resource, ""))
			assert.False(t, sec.Allow(sec.RoleAnonymous, "", op, resource, ""))
		}
	}
}

/*
TestAllow_ReviewsAndComments verifies the content gate: anyone reads,
authenticated users create, and mutation requires ownership or a
moderator-or-above role.
*/
func TestAllow_ReviewsAndComments(t *testing.T) {
	t.Parallel()

	for _, resource := range []sec.Resource{sec.ResourceReview, sec.ResourceComment} {
		assert.True(t, sec.Allow(sec.RoleAnonymous, "", sec.OpRead, resource, "owner"))
		assert.False(t, sec.Allow(sec.RoleAnonymous, "", sec.OpCreate, resource, ""))
		assert.True(t, sec.Allow(sec.RoleUser, "u1", sec.OpCreate, resource, ""))
		assert.True(t, sec.Allow(sec.RoleModerator, "m1", sec.OpCreate, resource, ""))

		for _, op := range []sec.Operation{sec.OpUpdate, sec.OpDelete} {
			// Owner may mutate their own content.
			assert.True(t, sec.Allow(sec.RoleUser, "u1", op, resource, "u1"))
			// A different user may not.
			assert.False(t, sec.Allow(sec.RoleUser, "u2", op, resource, "u1"))
			// Moderators and admins bypass ownership.
			assert.True(t, sec.Allow(sec.RoleModerator, "m1", op, resource, "u1"))
			assert.True(t, sec.Allow(sec.RoleAdmin, "a1", op, resource, "u1"))
			// Anonymous never mutates, even with a forged empty owner.
			assert.False(t, sec.Allow(sec.RoleAnonymous, "", op, resource, ""))
		}
	}
}

/*
TestAllow_OwnershipRequiresIdentity verifies that an empty actor ID never
satisfies the ownership check, even when the owner ID is also empty.
*/
func TestAllow_OwnershipRequiresIdentity(t *testing.T) {
	t.Parallel()

	assert.False(t, sec.Allow(sec.RoleUser, "", sec.OpUpdate, sec.ResourceReview, ""))
	assert.False(t, sec.Allow(sec.RoleUser, "", sec.OpDelete, sec.ResourceComment, ""))
}

/*
TestAllow_UserAdministration verifies that the user resource is gated to
admins for every operation, reads included.
*/
func TestAllow_UserAdministration(t *testing.T) {
	t.Parallel()

	ops := []sec.Operation{sec.OpRead, sec.OpCreate, sec.OpUpdate, sec.OpDelete}

	for _, op := range ops {
		assert.True(t, sec.Allow(sec.RoleAdmin, "a1", op, sec.ResourceUser, ""))
		assert.False(t, sec.Allow(sec.RoleModerator, "m1", op, sec.ResourceUser, ""))
		assert.False(t, sec.Allow(sec.RoleUser, "u1", op, sec.ResourceUser, "u1"))
		assert.False(t, sec.Allow(sec.RoleAnonymous, "", op, sec.ResourceUser, ""))
	}
}

/*
TestAuthorize_ErrorTaxonomy verifies the transport mapping: denied
anonymous callers get 401, denied authenticated callers get 403, and a
permitted call returns nil.
*/
func TestAuthorize_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	t.Run("anonymous denial is unauthorized", func(t *testing.T) {
		err := sec.Authorize(nil, sec.OpCreate, sec.ResourceReview, "")

		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
	})

	t.Run("authenticated denial is forbidden", func(t *testing.T) {
		claims := &sec.AuthClaims{UserID: "u2", Role: string(sec.RoleUser)}

		err := sec.Authorize(claims, sec.OpDelete, sec.ResourceReview, "u1")

		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)
	})

	t.Run("permitted call passes", func(t *testing.T) {
		claims := &sec.AuthClaims{UserID: "u1", Role: string(sec.RoleUser)}

		assert.NoError(t, sec.Authorize(claims, sec.OpUpdate, sec.ResourceReview, "u1"))
	})

	t.Run("admin passes user administration", func(t *testing.T) {
		claims := &sec.AuthClaims{UserID: "a1", Role: string(sec.RoleAdmin)}

		assert.NoError(t, sec.Authorize(claims, sec.OpDelete, sec.ResourceUser, ""))
	})
}
