package identity

import (
	"context"
	"testing"

	"ahmo/internal/store"
)

type fakeSessions struct {
	names map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{names: make(map[string]string)}
}

func (f *fakeSessions) GuestName(_ context.Context, sessionID string) (string, error) {
	return f.names[sessionID], nil
}

func (f *fakeSessions) SaveGuestName(_ context.Context, sessionID, name string) error {
	f.names[sessionID] = name
	return nil
}

func TestResolveAuthenticatedWins(t *testing.T) {
	r := NewResolver(newFakeSessions())
	user := store.User{ID: "user-1", DisplayName: "Avery"}

	id, ok, err := r.Resolve(context.Background(), "sess-1", &user)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !ok || !id.Authenticated {
		t.Fatal("expected authenticated identity")
	}
	if id.Token != "user-1" {
		t.Errorf("expected token user-1, got %s", id.Token)
	}
}

func TestResolveGuestFromSession(t *testing.T) {
	sessions := newFakeSessions()
	sessions.names["sess-1"] = "Alex"
	r := NewResolver(sessions)

	id, ok, err := r.Resolve(context.Background(), "sess-1", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !ok {
		t.Fatal("expected resolved guest identity")
	}
	if id.Token != "guest:Alex" {
		t.Errorf("expected token guest:Alex, got %s", id.Token)
	}
	if id.Authenticated {
		t.Error("guest identity must not be authenticated")
	}
}

func TestResolveNoneDefersAction(t *testing.T) {
	r := NewResolver(newFakeSessions())
	ctx := context.Background()

	_, ok, err := r.Resolve(ctx, "sess-1", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ok {
		t.Fatal("expected no identity")
	}

	fired := 0
	r.Defer("sess-1", func() { fired++ })
	if !r.HasPending("sess-1") {
		t.Fatal("expected pending action")
	}
	if fired != 0 {
		t.Fatal("deferred action must not run before capture")
	}

	id, err := r.CaptureGuestName(ctx, "sess-1", "  Alex  ")
	if err != nil {
		t.Fatalf("CaptureGuestName failed: %v", err)
	}
	if id.Token != "guest:Alex" {
		t.Errorf("expected trimmed guest token, got %s", id.Token)
	}
	if fired != 1 {
		t.Fatalf("expected action to fire exactly once, fired %d times", fired)
	}
	if r.HasPending("sess-1") {
		t.Error("pending action should be cleared after replay")
	}
}

func TestCaptureEmptyNameRejected(t *testing.T) {
	r := NewResolver(newFakeSessions())
	ctx := context.Background()

	fired := 0
	r.Defer("sess-1", func() { fired++ })

	for _, bad := range []string{"", "   ", "\t\n"} {
		if _, err := r.CaptureGuestName(ctx, "sess-1", bad); err != ErrEmptyName {
			t.Fatalf("expected ErrEmptyName for %q, got %v", bad, err)
		}
	}
	if fired != 0 {
		t.Fatal("rejected capture must not fire the action")
	}
	if !r.HasPending("sess-1") {
		t.Fatal("pending action must survive rejected captures")
	}
}

func TestRecaptureDoesNotReplayConsumedAction(t *testing.T) {
	r := NewResolver(newFakeSessions())
	ctx := context.Background()

	fired := 0
	r.Defer("sess-1", func() { fired++ })

	if _, err := r.CaptureGuestName(ctx, "sess-1", "Alex"); err != nil {
		t.Fatalf("CaptureGuestName failed: %v", err)
	}
	// Second capture overwrites the name but replays nothing
	id, err := r.CaptureGuestName(ctx, "sess-1", "Sam")
	if err != nil {
		t.Fatalf("CaptureGuestName failed: %v", err)
	}
	if id.Token != "guest:Sam" {
		t.Errorf("expected overwritten token guest:Sam, got %s", id.Token)
	}
	if fired != 1 {
		t.Fatalf("expected exactly one replay, got %d", fired)
	}
}

func TestNewerDeferReplacesOlder(t *testing.T) {
	r := NewResolver(newFakeSessions())
	ctx := context.Background()

	var ran []string
	r.Defer("sess-1", func() { ran = append(ran, "old") })
	r.Defer("sess-1", func() { ran = append(ran, "new") })

	if _, err := r.CaptureGuestName(ctx, "sess-1", "Alex"); err != nil {
		t.Fatalf("CaptureGuestName failed: %v", err)
	}
	if len(ran) != 1 || ran[0] != "new" {
		t.Fatalf("expected only the newest action to run, got %v", ran)
	}
}
