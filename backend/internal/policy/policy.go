// Package policy decides who may change what. It only looks at the actor and
// the stored owner; it never touches storage.
package policy

import (
	"strings"

	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
)

// Identity is the key an actor owns records and votes under: the normalized
// email when there is one, the stable id otherwise. Anonymous actors have none.
func Identity(actor *domain.Actor) domain.Identity {
	if actor == nil {
		return ""
	}
	if email := strings.ToLower(strings.TrimSpace(actor.Email)); email != "" {
		return email
	}
	return actor.Id
}

func owns(actor *domain.Actor, ownerId domain.Identity) bool {
	id := Identity(actor)
	return id != "" && strings.EqualFold(id, strings.TrimSpace(ownerId))
}

// CanMutate allows delete: the owner or any admin.
func CanMutate(actor *domain.Actor, ownerId domain.Identity) bool {
	return actor.IsAdmin() || owns(actor, ownerId)
}

// CanEdit allows edits. Admins get no override here.
func CanEdit(actor *domain.Actor, ownerId domain.Identity) bool {
	return owns(actor, ownerId)
}

// Grant names the branch that allowed a photo delete.
type Grant string

const (
	GrantAdmin Grant = "admin"
	GrantOwner Grant = "owner"
	GrantGuest Grant = "guest_password"
)

// SecretChecker verifies a plain delete password against a stored hash.
type SecretChecker func(hash, plain string) bool

// AuthorizePhotoDelete runs the photo delete state machine. The branches are
// tried in order and exactly one outcome is returned: a grant, or one of
// ErrNeedCredentials, ErrNoGuestProtection, ErrBadCredentials.
func AuthorizePhotoDelete(actor *domain.Actor, photo *domain.Photo, proof string, check SecretChecker) (Grant, error) {
	if actor.IsAdmin() {
		return GrantAdmin, nil
	}
	if actor != nil && actor.Email != "" && photo.UploaderEmail != "" &&
		strings.EqualFold(strings.TrimSpace(actor.Email), strings.TrimSpace(photo.UploaderEmail)) {
		return GrantOwner, nil
	}
	if proof == "" {
		return "", errors.ErrNeedCredentials
	}
	if !photo.GuestProtected() {
		return "", errors.ErrNoGuestProtection
	}
	if !check(photo.DeleteSecretHash, proof) {
		return "", errors.ErrBadCredentials
	}
	return GrantGuest, nil
}
