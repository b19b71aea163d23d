package models

import (
	"strings"

	"outfitstore/internal/apperr"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID      UserRef
	IsAdmin     bool
	DisplayName string
	FullName    string
}

// Anonymous reports whether no user is attached.
func (a Actor) Anonymous() bool { return a.UserID == "" }

// Owns reports whether the actor is the given user.
func (a Actor) Owns(owner UserRef) bool {
	return !a.Anonymous() && a.UserID == owner
}

// CanModify allows the owner or an admin.
func (a Actor) CanModify(owner UserRef) bool {
	return a.IsAdmin || a.Owns(owner)
}

func (a Actor) RequireUser() error {
	if a.Anonymous() {
		return apperr.Permission("authentication required")
	}
	return nil
}

func (a Actor) RequireAdmin() error {
	if !a.IsAdmin {
		return apperr.Permission("admin access required")
	}
	return nil
}

// ResolveAuthorName picks the name shown on a comment or reply: the explicit
// username, then the actor's full name, then the actor's display name.
func ResolveAuthorName(explicit string, actor Actor) (string, error) {
	for _, candidate := range []string{explicit, actor.FullName, actor.DisplayName} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name, nil
		}
	}
	return "", apperr.Validation("username is required")
}
