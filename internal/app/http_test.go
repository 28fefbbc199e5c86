package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ahmo/internal/store"
	"ahmo/internal/stream"
)

func newTestServer(t *testing.T) (*HTTPServer, *memStore, *memSessions) {
	t.Helper()
	ms := newMemStore()
	sessions := newMemSessions()
	svc := New(testConfig(), ms, sessions, nil, nil, nil, nil)
	return NewHTTPServer(svc, stream.NewBus(), "*"), ms, sessions
}

func doJSON(t *testing.T, handler http.Handler, method, path, sessionID string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func TestHealthAndReady(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	rec, body := doJSON(t, handler, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK || body["ok"] != true {
		t.Fatalf("health: %d %v", rec.Code, body)
	}

	rec, body = doJSON(t, handler, http.MethodGet, "/api/ready", "", nil)
	if rec.Code != http.StatusOK || body["status"] != "ready" {
		t.Fatalf("ready: %d %v", rec.Code, body)
	}
}

func TestGuestPostFlowOverHTTP(t *testing.T) {
	server, ms, _ := newTestServer(t)
	handler := server.Handler()
	ctx := context.Background()

	ms.InsertBoardDirect(store.Board{
		ID:              "brd_1",
		Title:           "Retro",
		Privacy:         store.PrivacyPublic,
		GuestPermission: store.GuestEdit,
		OwnerID:         "usr_owner",
	})
	if _, err := ms.InsertSection(ctx, store.Section{ID: "sec_1", BoardID: "brd_1", Title: "Ideas"}); err != nil {
		t.Fatal(err)
	}

	// Anonymous session: the post is parked, not created.
	rec, body := doJSON(t, handler, http.MethodPost, "/api/boards/brd_1/posts", "sess-1", map[string]any{
		"sectionId": "sec_1",
		"title":     "First idea",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: %d %v", rec.Code, body)
	}
	if body["pendingIdentity"] != true {
		t.Fatalf("expected pendingIdentity, got %v", body)
	}

	rec, body = doJSON(t, handler, http.MethodGet, "/api/session/pending", "sess-1", nil)
	if rec.Code != http.StatusOK || body["pending"] != true {
		t.Fatalf("pending: %d %v", rec.Code, body)
	}

	// Capturing a name replays the parked post.
	rec, body = doJSON(t, handler, http.MethodPost, "/api/session/guest-name", "sess-1", map[string]any{"name": "Alex"})
	if rec.Code != http.StatusOK {
		t.Fatalf("guest-name: %d %v", rec.Code, body)
	}
	if body["displayName"] != "Alex" {
		t.Fatalf("unexpected identity payload: %v", body)
	}

	rec, body = doJSON(t, handler, http.MethodGet, "/api/boards/brd_1", "sess-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("board view: %d %v", rec.Code, body)
	}
	sections := body["sections"].([]any)
	posts := sections[0].(map[string]any)["posts"].([]any)
	if len(posts) != 1 {
		t.Fatalf("expected 1 post after replay, got %d", len(posts))
	}
	post := posts[0].(map[string]any)
	if post["authorName"] != "Alex" {
		t.Fatalf("post author = %v", post["authorName"])
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec, body := doJSON(t, server.Handler(), http.MethodGet, "/api/nope", "", nil)
	if rec.Code != http.StatusNotFound || body["code"] != "NOT_FOUND" {
		t.Fatalf("unexpected: %d %v", rec.Code, body)
	}
}

func TestSignUpOverHTTP(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	rec, body := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":       "mia@example.com",
		"password":    "hunter2hunter2",
		"displayName": "Mia",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: %d %v", rec.Code, body)
	}
	if body["token"] == "" || body["refreshToken"] == "" {
		t.Fatalf("tokens missing: %v", body)
	}

	rec, body = doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":       "mia@example.com",
		"password":    "hunter2hunter2",
		"displayName": "Mia",
	})
	if rec.Code != http.StatusConflict || body["code"] != "EMAIL_EXISTS" {
		t.Fatalf("duplicate signup: %d %v", rec.Code, body)
	}
}
