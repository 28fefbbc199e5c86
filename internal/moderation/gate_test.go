package moderation

import (
	"testing"

	"ahmo/internal/identity"
	"ahmo/internal/store"
)

func TestStatusForNew(t *testing.T) {
	if got := StatusForNew(store.Board{ModerationEnabled: true}); got != store.StatusPending {
		t.Fatalf("expected pending on moderated board, got %s", got)
	}
	if got := StatusForNew(store.Board{ModerationEnabled: false}); got != store.StatusApproved {
		t.Fatalf("expected approved on unmoderated board, got %s", got)
	}
}

func TestCanSeePendingItem(t *testing.T) {
	author := identity.FromGuest("Alex")
	other := identity.FromGuest("Sam")

	if !CanSee(store.StatusPending, author.Token, author, false) {
		t.Fatal("author must see own pending item")
	}
	if CanSee(store.StatusPending, author.Token, other, false) {
		t.Fatal("other guest must not see pending item")
	}
	if !CanSee(store.StatusPending, author.Token, identity.Identity{}, true) {
		t.Fatal("owner must see pending item")
	}
	if !CanSee(store.StatusApproved, author.Token, other, false) {
		t.Fatal("approved item is visible to everyone access permits")
	}
	if CanSee(store.StatusPending, "", identity.Identity{}, false) {
		t.Fatal("empty tokens must never grant visibility")
	}
}

func TestFilterPosts(t *testing.T) {
	alex := identity.FromGuest("Alex")
	sam := identity.FromGuest("Sam")
	posts := []store.Post{
		{ID: "p1", Status: store.StatusPending, AuthorToken: alex.Token},
		{ID: "p2", Status: store.StatusApproved, AuthorToken: sam.Token},
		{ID: "p3", Status: store.StatusPending, AuthorToken: sam.Token},
	}

	got := FilterPosts(posts, sam, false)
	if len(got) != 2 || got[0].ID != "p2" || got[1].ID != "p3" {
		t.Fatalf("unexpected filter result for sam: %+v", got)
	}

	got = FilterPosts(posts, alex, false)
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p2" {
		t.Fatalf("unexpected filter result for alex: %+v", got)
	}

	got = FilterPosts(posts, identity.Identity{}, true)
	if len(got) != 3 {
		t.Fatalf("owner sees everything, got %d posts", len(got))
	}
}

func TestFilterComments(t *testing.T) {
	alex := identity.FromGuest("Alex")
	comments := []store.Comment{
		{ID: "c1", Status: store.StatusApproved, AuthorToken: alex.Token},
		{ID: "c2", Status: store.StatusPending, AuthorToken: alex.Token},
	}
	got := FilterComments(comments, identity.FromGuest("Sam"), false)
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("unexpected comment filter result: %+v", got)
	}
}
