package access

import (
	"testing"

	"ahmo/internal/identity"
	"ahmo/internal/store"
)

func owner() identity.Identity {
	return identity.FromUser(store.User{ID: "user-owner", DisplayName: "Owner"})
}

func guest(name string) identity.Identity {
	return identity.FromGuest(name)
}

func board(privacy, guestPermission string) store.Board {
	return store.Board{
		ID:              "board-1",
		Privacy:         privacy,
		GuestPermission: guestPermission,
		OwnerID:         "user-owner",
	}
}

func TestIsOwner(t *testing.T) {
	b := board(store.PrivacyPublic, store.GuestEdit)
	if !IsOwner(b, owner()) {
		t.Fatal("expected owner")
	}
	if IsOwner(b, identity.FromUser(store.User{ID: "user-other"})) {
		t.Fatal("other user must not be owner")
	}
	// A guest whose token happens to collide textually is still not owner
	if IsOwner(store.Board{OwnerID: "guest:Owner"}, guest("Owner")) {
		t.Fatal("guests can never be owner")
	}
}

func TestCanContribute(t *testing.T) {
	tests := []struct {
		name    string
		board   store.Board
		id      identity.Identity
		allowed bool
	}{
		{"guest on public edit board", board(store.PrivacyPublic, store.GuestEdit), guest("Alex"), true},
		{"guest on view-only board", board(store.PrivacyPublic, store.GuestView), guest("Alex"), false},
		{"guest on private board", board(store.PrivacyPrivate, store.GuestEdit), guest("Alex"), false},
		{"owner on view-only board", board(store.PrivacyPublic, store.GuestView), owner(), true},
		{"owner on private board", board(store.PrivacyPrivate, store.GuestView), owner(), true},
		{"unresolved identity on public board", board(store.PrivacyPublic, store.GuestEdit), identity.Identity{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanContribute(tc.board, tc.id); got != tc.allowed {
				t.Errorf("CanContribute = %v, want %v", got, tc.allowed)
			}
		})
	}
}

func TestCanViewPrivateBoard(t *testing.T) {
	b := board(store.PrivacyPrivate, store.GuestEdit)
	if !CanView(b, owner(), false) {
		t.Fatal("owner must see private board")
	}
	// guestPermission is irrelevant on private boards
	for _, gp := range []string{store.GuestEdit, store.GuestView} {
		b.GuestPermission = gp
		if CanView(b, guest("Alex"), false) {
			t.Fatalf("non-owner must not see private board (guestPermission=%s)", gp)
		}
		if CanView(b, identity.FromUser(store.User{ID: "user-other"}), false) {
			t.Fatal("other authenticated user must not see private board")
		}
	}
}

func TestPasswordGate(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	b := board(store.PrivacyPassword, store.GuestEdit)
	b.PasswordHash = hash

	if CanView(b, guest("Alex"), false) {
		t.Fatal("unverified session must not see password board")
	}
	if !PasswordRequired(b, guest("Alex"), false) {
		t.Fatal("expected password prompt for unverified session")
	}
	if !CanView(b, guest("Alex"), true) {
		t.Fatal("verified session must see password board")
	}
	if !CanView(b, owner(), false) {
		t.Fatal("owner bypasses the password gate")
	}
	if PasswordRequired(b, owner(), false) {
		t.Fatal("owner must not be prompted")
	}

	if !VerifyPassword(b, "s3cret") {
		t.Fatal("exact password must verify")
	}
	if VerifyPassword(b, "S3cret") {
		t.Fatal("comparison is case-sensitive")
	}
	if VerifyPassword(b, "") {
		t.Fatal("empty entry must not verify")
	}
}

func TestVerifyPasswordOnNonPasswordBoard(t *testing.T) {
	if VerifyPassword(board(store.PrivacyPublic, store.GuestEdit), "anything") {
		t.Fatal("public boards have no password gate")
	}
}

func TestCanModify(t *testing.T) {
	b := board(store.PrivacyPublic, store.GuestEdit)
	author := guest("Alex")

	if !CanModify(b, author, author.Token) {
		t.Fatal("author can modify own item")
	}
	if CanModify(b, guest("Sam"), author.Token) {
		t.Fatal("other guest cannot modify")
	}
	if !CanModify(b, owner(), author.Token) {
		t.Fatal("board owner can modify any item")
	}
	if CanModify(b, identity.Identity{}, "") {
		t.Fatal("empty tokens must never match")
	}
}
