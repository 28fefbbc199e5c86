// Package identity resolves the acting identity for a request: an
// authenticated user, a session-scoped guest, or nobody — in which case the
// requested action is parked until a guest name is captured.
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"ahmo/internal/store"
)

// GuestPrefix marks session-scoped guest tokens.
const GuestPrefix = "guest:"

var ErrEmptyName = errors.New("guest name is empty")

type Identity struct {
	Token         string
	DisplayName   string
	PhotoURL      string
	Authenticated bool
}

// FromUser builds an authenticated identity; the token is the user id.
func FromUser(u store.User) Identity {
	return Identity{
		Token:         u.ID,
		DisplayName:   u.DisplayName,
		PhotoURL:      u.PhotoURL,
		Authenticated: true,
	}
}

// FromGuest builds a guest identity from a captured display name.
func FromGuest(name string) Identity {
	return Identity{Token: GuestToken(name), DisplayName: name}
}

func GuestToken(name string) string {
	return GuestPrefix + name
}

type sessionStore interface {
	GuestName(ctx context.Context, sessionID string) (string, error)
	SaveGuestName(ctx context.Context, sessionID, name string) error
}

// Resolver resolves identities and holds at most one pending action per
// session. A pending action is a zero-argument deferred callable replayed
// exactly once when a valid guest name arrives.
type Resolver struct {
	sessions sessionStore

	mu      sync.Mutex
	pending map[string]func()
}

func NewResolver(sessions sessionStore) *Resolver {
	return &Resolver{
		sessions: sessions,
		pending:  make(map[string]func()),
	}
}

// Resolve returns the acting identity. authUser wins when present; otherwise
// a previously captured guest name is used. ok is false when no identity
// exists yet — callers should Defer the action and prompt for a name.
func (r *Resolver) Resolve(ctx context.Context, sessionID string, authUser *store.User) (Identity, bool, error) {
	if authUser != nil {
		return FromUser(*authUser), true, nil
	}
	name, err := r.sessions.GuestName(ctx, sessionID)
	if err != nil {
		return Identity{}, false, err
	}
	if name != "" {
		return FromGuest(name), true, nil
	}
	return Identity{}, false, nil
}

// Defer parks an action for the session until a guest name is captured. A
// newer deferred action replaces an older one that never fired.
func (r *Resolver) Defer(sessionID string, action func()) {
	r.mu.Lock()
	r.pending[sessionID] = action
	r.mu.Unlock()
}

// HasPending reports whether the session has a parked action, which the UI
// uses to keep the name prompt open.
func (r *Resolver) HasPending(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pending[sessionID]
	return ok
}

// ClearPending drops a parked action without running it.
func (r *Resolver) ClearPending(sessionID string) {
	r.mu.Lock()
	delete(r.pending, sessionID)
	r.mu.Unlock()
}

// CaptureGuestName validates and stores the guest name, then replays the
// session's pending action exactly once. An empty name after trimming is
// rejected and the pending action stays parked. Re-capturing overwrites the
// stored name but never replays an action that already ran.
func (r *Resolver) CaptureGuestName(ctx context.Context, sessionID, name string) (Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Identity{}, ErrEmptyName
	}
	if err := r.sessions.SaveGuestName(ctx, sessionID, name); err != nil {
		return Identity{}, err
	}

	r.mu.Lock()
	action := r.pending[sessionID]
	delete(r.pending, sessionID)
	r.mu.Unlock()

	if action != nil {
		action()
	}
	return FromGuest(name), nil
}
