// Package moderation decides the pending/approved lifecycle of posts and
// comments and filters what each viewer is allowed to see.
package moderation

import (
	"ahmo/internal/identity"
	"ahmo/internal/store"
)

// StatusForNew decides the initial status for a freshly created post or
// comment. Decided once at creation; toggling the board setting later never
// re-evaluates existing items.
func StatusForNew(b store.Board) string {
	if b.ModerationEnabled {
		return store.StatusPending
	}
	return store.StatusApproved
}

// CanSee reports whether the viewer may see an item with the given status
// and author token. Pending items are visible only to the board owner and to
// their own author within their session.
func CanSee(status, authorToken string, viewer identity.Identity, isOwner bool) bool {
	if status == store.StatusApproved {
		return true
	}
	if isOwner {
		return true
	}
	return viewer.Token != "" && viewer.Token == authorToken
}

// FilterPosts returns the posts the viewer may see, preserving input order.
func FilterPosts(posts []store.Post, viewer identity.Identity, isOwner bool) []store.Post {
	out := make([]store.Post, 0, len(posts))
	for _, p := range posts {
		if CanSee(p.Status, p.AuthorToken, viewer, isOwner) {
			out = append(out, p)
		}
	}
	return out
}

// FilterComments returns the comments the viewer may see, preserving input
// order.
func FilterComments(comments []store.Comment, viewer identity.Identity, isOwner bool) []store.Comment {
	out := make([]store.Comment, 0, len(comments))
	for _, c := range comments {
		if CanSee(c.Status, c.AuthorToken, viewer, isOwner) {
			out = append(out, c)
		}
	}
	return out
}
