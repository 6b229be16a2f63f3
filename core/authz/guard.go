// Package authz holds the single authorization decision used by every
// mutating track route. Callers confirm the resource exists and fetch its
// owner before consulting the guard; a missing resource is a 404 regardless
// of who is asking.
package authz

import (
	"errors"

	"tynda/model"
)

// Action names an operation subject to authorization.
type Action string

const (
	// ActionReadPublic covers track listing and detail; always permitted.
	ActionReadPublic Action = "read-public"
	// ActionCreate requires any authenticated session.
	ActionCreate Action = "create"
	// ActionUpdate requires the owner or an admin.
	ActionUpdate Action = "update"
	// ActionDelete requires the owner or an admin.
	ActionDelete Action = "delete"
)

var (
	// ErrUnauthorized means no authenticated session was presented.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the session is authenticated but is neither the
	// resource owner nor an admin.
	ErrForbidden = errors.New("forbidden")
)

// Authorize decides whether the session may perform action on a resource
// owned by ownerID. A nil return means allow. Pure function, no I/O.
//
// Owner comparison is by value on the canonical string form of the id, never
// by reference, so it holds across storage round trips.
func Authorize(sess *model.Session, action Action, ownerID string) error {
	if action == ActionReadPublic {
		return nil
	}

	if sess == nil || sess.UserID == "" {
		return ErrUnauthorized
	}

	switch action {
	case ActionCreate:
		// Any authenticated account may create; the new resource is owned
		// by the acting account.
		return nil
	case ActionUpdate, ActionDelete:
		if sess.IsAdmin() {
			return nil
		}
		if sess.UserID == ownerID {
			return nil
		}
		return ErrForbidden
	default:
		return ErrForbidden
	}
}
