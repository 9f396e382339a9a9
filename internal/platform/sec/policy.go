// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "github.com/taibuivan/revio/internal/platform/apperr"

// # Authorization Policy
//
// Allow is the single source of truth for every endpoint's gating. Services
// consult it before executing the corresponding store operation; handlers
// never hand-roll role checks.

// Operation classifies what a caller wants to do with a resource.
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Resource identifies the kind of entity an operation targets.
type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceTitle    Resource = "title"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	ResourceUser     Resource = "user"
)

// Authorize wraps [Allow] with the transport error taxonomy: an anonymous
// denial is Unauthorized (401), an authenticated denial is Forbidden (403).
// Services call this before touching storage for gated operations.
func Authorize(claims *AuthClaims, op Operation, resource Resource, ownerID string) error {
	actorID := ""
	if claims != nil {
		actorID = claims.UserID
	}

	if Allow(claims.EffectiveRole(), actorID, op, resource, ownerID) {
		return nil
	}

	if claims.EffectiveRole() == RoleAnonymous {
		return apperr.Unauthorized("Authentication required")
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}

// Allow decides whether a caller may perform an operation on a resource.
//
// # Decision Table
//
//   - Catalog (category/genre/title): read is public, writes are admin-only.
//   - Review/Comment: read is public; create needs authentication; update and
//     delete need ownership (actorID == ownerID), moderator, or admin.
//   - User administration: admin-only for every operation. The /me surface is
//     not routed through Allow: it has no ambiguous target, so handlers gate
//     it with authentication alone.
//
// ownerID is the resource owner's ID where an ownership relation exists, or
// empty when the resource has no owner. A denial is indistinguishable whether
// the resource exists or not; Allow never touches storage.
func Allow(role UserRole, actorID string, op Operation, resource Resource, ownerID string) bool {
	switch resource {
	case ResourceCategory, ResourceGenre, ResourceTitle:
		if op == OpRead {
			return true
		}
		return role == RoleAdmin

	case ResourceReview, ResourceComment:
		switch op {
		case OpRead:
			return true
		case OpCreate:
			return role.AtLeast(RoleUser)
		case OpUpdate, OpDelete:
			if role.AtLeast(RoleModerator) {
				return true
			}
			return role == RoleUser && actorID != "" && actorID == ownerID
		}
		return false

	case ResourceUser:
		return role == RoleAdmin
	}

	return false
}
