// Package access computes ownership, contribution and visibility rights from
// board state and the acting identity. Everything is a pure function,
// recomputed on every call; session flags are passed in, never cached here.
package access

import (
	"golang.org/x/crypto/bcrypt"

	"ahmo/internal/identity"
	"ahmo/internal/store"
)

// IsOwner reports whether the identity owns the board. Guests can never be
// owner.
func IsOwner(b store.Board, id identity.Identity) bool {
	return id.Authenticated && id.Token == b.OwnerID
}

// CanContribute reports whether the identity may create posts, comments and
// votes on the board.
func CanContribute(b store.Board, id identity.Identity) bool {
	if IsOwner(b, id) {
		return true
	}
	return b.Privacy != store.PrivacyPrivate && b.GuestPermission != store.GuestView
}

// CanView gates board content. Private boards are owner-only, terminal for
// the session. Password boards require a verified flag the caller obtained
// through VerifyPassword.
func CanView(b store.Board, id identity.Identity, verified bool) bool {
	switch b.Privacy {
	case store.PrivacyPrivate:
		return IsOwner(b, id)
	case store.PrivacyPassword:
		return IsOwner(b, id) || verified
	default:
		return true
	}
}

// PasswordRequired reports whether the viewer still has to pass the password
// gate before content may be shown.
func PasswordRequired(b store.Board, id identity.Identity, verified bool) bool {
	return b.Privacy == store.PrivacyPassword && !IsOwner(b, id) && !verified
}

// VerifyPassword checks the entered password against the board's stored
// hash. Comparison is exact and case-sensitive.
func VerifyPassword(b store.Board, entered string) bool {
	if b.Privacy != store.PrivacyPassword || b.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(b.PasswordHash), []byte(entered)) == nil
}

// HashPassword prepares a board password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CanModify reports whether the identity may edit or delete the given item,
// identified by its author token: the author themselves or the board owner.
func CanModify(b store.Board, id identity.Identity, authorToken string) bool {
	if IsOwner(b, id) {
		return true
	}
	return id.Token != "" && id.Token == authorToken
}
