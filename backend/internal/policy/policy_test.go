package policy

import (
	"testing"

	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
	"github.com/apexcharge/paddock/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice  = &domain.Actor{Id: "u-alice", Email: " Alice@Apex.dev ", Name: "alice", Role: domain.RoleUser}
	bob    = &domain.Actor{Id: "u-bob", Email: "bob@apex.dev", Name: "bob", Role: domain.RoleUser}
	admin  = &domain.Actor{Id: "u-admin", Email: "boss@apex.dev", Name: "boss", Role: domain.RoleAdmin}
	noMail = &domain.Actor{Id: "device-42", Name: "kiosk", Role: domain.RoleUser}
)

func TestIdentity(t *testing.T) {
	assert.Equal(t, "alice@apex.dev", Identity(alice))
	assert.Equal(t, "device-42", Identity(noMail))
	assert.Equal(t, "", Identity(nil))
}

func TestCanMutateAndCanEdit(t *testing.T) {
	tests := []struct {
		name       string
		actor      *domain.Actor
		owner      domain.Identity
		wantMutate bool
		wantEdit   bool
	}{
		{"owner", alice, "alice@apex.dev", true, true},
		{"owner stored with other case", alice, "ALICE@apex.dev", true, true},
		{"stranger", bob, "alice@apex.dev", false, false},
		{"admin", admin, "alice@apex.dev", true, false},
		{"anonymous", nil, "alice@apex.dev", false, false},
		{"anonymous never owns empty owner", nil, "", false, false},
		{"id based identity", noMail, "device-42", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMutate, CanMutate(tt.actor, tt.owner))
			assert.Equal(t, tt.wantEdit, CanEdit(tt.actor, tt.owner))
		})
	}
}

func TestEditImpliesMutate(t *testing.T) {
	owners := []domain.Identity{"alice@apex.dev", "bob@apex.dev", "device-42", "", "seed@local"}
	for _, actor := range []*domain.Actor{alice, bob, admin, noMail, nil} {
		for _, owner := range owners {
			if CanEdit(actor, owner) {
				assert.True(t, CanMutate(actor, owner), "%v on %q", actor, owner)
			}
			if actor.IsAdmin() {
				assert.True(t, CanMutate(actor, owner))
			}
		}
	}
}

func TestAuthorizePhotoDelete(t *testing.T) {
	hash, err := utils.HashDeleteSecret("abcd")
	require.NoError(t, err)

	guestPhoto := &domain.Photo{Id: "p1", UploaderDisplayName: "guest", DeleteSecretHash: hash}
	legacyPhoto := &domain.Photo{Id: "p2", DeleteSecretHash: "88d4266fd4e6338d13b845fcf289579d209c897823b9217da3e161936f031589"}
	memberPhoto := &domain.Photo{Id: "p3", UploaderEmail: "alice@APEX.dev"}

	tests := []struct {
		name      string
		actor     *domain.Actor
		photo     *domain.Photo
		proof     string
		wantGrant Grant
		wantErr   error
	}{
		{"admin without proof", admin, memberPhoto, "", GrantAdmin, nil},
		{"admin with wrong proof", admin, guestPhoto, "nope", GrantAdmin, nil},
		{"owner by email", alice, memberPhoto, "", GrantOwner, nil},
		{"stranger without proof", bob, memberPhoto, "", "", errors.ErrNeedCredentials},
		{"guest without proof", nil, guestPhoto, "", "", errors.ErrNeedCredentials},
		{"password on unprotected photo", nil, memberPhoto, "abcd", "", errors.ErrNoGuestProtection},
		{"wrong password", nil, guestPhoto, "wrong", "", errors.ErrBadCredentials},
		{"right password", nil, guestPhoto, "abcd", GrantGuest, nil},
		{"stranger with right password", bob, guestPhoto, "abcd", GrantGuest, nil},
		{"legacy sha256 digest", nil, legacyPhoto, "abcd", GrantGuest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grant, err := AuthorizePhotoDelete(tt.actor, tt.photo, tt.proof, utils.CheckDeleteSecret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, grant)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantGrant, grant)
		})
	}
}

func TestAuthorizePhotoDeleteChecksOnlyWhenNeeded(t *testing.T) {
	calls := 0
	check := func(hash, plain string) bool {
		calls++
		return true
	}

	_, _ = AuthorizePhotoDelete(admin, &domain.Photo{DeleteSecretHash: "x"}, "p", check)
	_, _ = AuthorizePhotoDelete(nil, &domain.Photo{}, "p", check)
	_, _ = AuthorizePhotoDelete(nil, &domain.Photo{DeleteSecretHash: "x"}, "", check)
	assert.Zero(t, calls)

	grant, err := AuthorizePhotoDelete(nil, &domain.Photo{DeleteSecretHash: "x"}, "p", check)
	require.NoError(t, err)
	assert.Equal(t, GrantGuest, grant)
	assert.Equal(t, 1, calls)
}
