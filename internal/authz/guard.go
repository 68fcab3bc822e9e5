// Package authz centralises role and resource authorization decisions so
// route handlers never re-derive hierarchy comparisons inline.
package authz

import (
	"strings"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// Decision is the tagged outcome of an authorization check. Unauthorized
// means no valid identity was presented; Forbidden means the identity is
// valid but lacks privilege.
type Decision int

const (
	Allowed Decision = iota
	Unauthorized
	Forbidden
)

// String returns a readable form used in logs.
func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Unauthorized:
		return "unauthorized"
	default:
		return "forbidden"
	}
}

// Session is the per-request identity context constructed once from a
// verified token and passed explicitly into every service call.
type Session struct {
	UserID     uint
	Role       string
	Department string
}

// IsAdmin reports whether the session carries the ADMIN role.
func (s Session) IsAdmin() bool {
	return NormalizeRole(s.Role) == models.RoleAdmin
}

// Rank maps a role onto the total order ADMIN(3) > STAFF(2) > CLIENT(1).
// Unknown roles rank zero and are never allowed anything.
func Rank(role string) int {
	switch NormalizeRole(role) {
	case models.RoleAdmin:
		return 3
	case models.RoleStaff:
		return 2
	case models.RoleClient:
		return 1
	default:
		return 0
	}
}

// NormalizeRole canonicalises role strings from tokens or storage.
func NormalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

// Authorize allows the session iff its role ranks at least as high as the
// required role.
func Authorize(session *Session, requiredRole string) Decision {
	if session == nil || session.UserID == 0 {
		return Unauthorized
	}

	have := Rank(session.Role)
	if have == 0 {
		return Forbidden
	}
	if have < Rank(requiredRole) {
		return Forbidden
	}

	return Allowed
}

// AuthorizeTask applies the resource-level task rules on top of role rank:
// CLIENT sees only tasks assigned to them, STAFF sees tasks they are
// assignee or assigner of, ADMIN sees everything.
func AuthorizeTask(session *Session, task models.Task) Decision {
	if session == nil || session.UserID == 0 {
		return Unauthorized
	}

	switch NormalizeRole(session.Role) {
	case models.RoleAdmin:
		return Allowed
	case models.RoleStaff:
		if task.AssignedToID == session.UserID || task.AssignedByID == session.UserID {
			return Allowed
		}
		return Forbidden
	case models.RoleClient:
		if task.AssignedToID == session.UserID {
			return Allowed
		}
		return Forbidden
	default:
		return Forbidden
	}
}

// AuthorizeSelfOrAdmin allows access to a user-scoped resource for its owner
// or for an administrator.
func AuthorizeSelfOrAdmin(session *Session, ownerID uint) Decision {
	if session == nil || session.UserID == 0 {
		return Unauthorized
	}
	if session.UserID == ownerID || session.IsAdmin() {
		return Allowed
	}
	return Forbidden
}
