// Package projection derives per-section display sequences from a selected
// sort mode. Projections are pure and display-only: canonical rank is never
// touched, and ties keep the original rank order so recomputation is
// deterministic.
package projection

import (
	"sort"
	"strings"

	"ahmo/internal/store"
)

type Mode string

const (
	Manual     Mode = "manual"
	Newest     Mode = "newest"
	Oldest     Mode = "oldest"
	TitleAsc   Mode = "title-asc"
	TitleDesc  Mode = "title-desc"
	AuthorAsc  Mode = "author-asc"
	AuthorDesc Mode = "author-desc"
)

func Valid(mode Mode) bool {
	switch mode {
	case Manual, Newest, Oldest, TitleAsc, TitleDesc, AuthorAsc, AuthorDesc:
		return true
	}
	return false
}

// Project returns the posts ordered for display under mode. The input slice
// must already be in manual (rank) order; it is never mutated.
func Project(posts []store.Post, mode Mode) []store.Post {
	out := make([]store.Post, len(posts))
	copy(out, posts)
	if mode == Manual || mode == "" {
		return out
	}

	less := comparator(mode)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func comparator(mode Mode) func(a, b store.Post) bool {
	switch mode {
	case Newest:
		return func(a, b store.Post) bool { return a.CreatedAt.After(b.CreatedAt) }
	case Oldest:
		return func(a, b store.Post) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case TitleAsc:
		return func(a, b store.Post) bool { return lexLess(a.Title, b.Title) }
	case TitleDesc:
		return func(a, b store.Post) bool { return lexLess(b.Title, a.Title) }
	case AuthorAsc:
		return func(a, b store.Post) bool { return lexLess(a.AuthorName, b.AuthorName) }
	case AuthorDesc:
		return func(a, b store.Post) bool { return lexLess(b.AuthorName, a.AuthorName) }
	}
	return nil
}

// lexLess compares case-insensitively first and falls back to a case-aware
// compare, so "apple" and "Apple" order deterministically. Empty strings
// sort before everything.
func lexLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
