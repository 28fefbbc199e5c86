// Package collection is the canonical holder of a board's ordered sections
// and posts. Local reorders apply optimistically and are written through to
// the persistence layer as full ordered id lists; incoming remote snapshots
// always win over local state (last-writer-wins, no merge). Position state
// has no meaningful field-level merge, so correctness is convergence to some
// valid dense ranking, not to either client's intent.
package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ahmo/internal/projection"
	"ahmo/internal/store"
)

type State int

const (
	StateSynced State = iota
	StateOptimistic
)

var (
	// ErrSortModeActive rejects reorders while a non-manual projection is
	// displayed: the visible order would not match canonical rank and a
	// write would scramble data relative to what the user saw.
	ErrSortModeActive = errors.New("reorder disabled while a sort projection is active")
	ErrBadOrder       = errors.New("submitted ids are not a permutation of the scope")
	ErrUnknownScope   = errors.New("unknown scope")
	// ErrPartialMove marks a cross-section move whose source removal failed
	// after the target insert succeeded. The stale source ordering is a
	// narrow, recoverable window corrected by the next snapshot.
	ErrPartialMove = errors.New("cross-section move partially applied")
)

// RankWriter issues rank-list writes to the persistence collaborator.
type RankWriter interface {
	WriteSectionOrder(ctx context.Context, boardID string, orderedIDs []string) error
	WritePostOrder(ctx context.Context, sectionID string, orderedIDs []string) error
	InsertIntoSection(ctx context.Context, postID, toSectionID string, orderedIDs []string) error
	RemoveFromSection(ctx context.Context, postID, fromSectionID string) error
}

const sectionScope = "sections"

func postScope(sectionID string) string { return "posts:" + sectionID }

// Store holds one board's collections. All reads return copies; canonical
// state is mutated only under the lock.
type Store struct {
	boardID string
	writer  RankWriter

	mu       sync.RWMutex
	mode     projection.Mode
	sections []store.Section
	posts    map[string][]store.Post
	state    map[string]State
}

func NewStore(boardID string, writer RankWriter) *Store {
	return &Store{
		boardID: boardID,
		writer:  writer,
		mode:    projection.Manual,
		posts:   make(map[string][]store.Post),
		state:   make(map[string]State),
	}
}

// Load installs an initial snapshot; every scope starts Synced.
func (s *Store) Load(sections []store.Section, postsBySection map[string][]store.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = append([]store.Section(nil), sections...)
	s.posts = make(map[string][]store.Post, len(postsBySection))
	s.state = make(map[string]State)
	for _, sec := range sections {
		s.posts[sec.ID] = append([]store.Post(nil), postsBySection[sec.ID]...)
	}
}

// SetSortMode selects the active projection mode; non-manual modes arm the
// reorder guard.
func (s *Store) SetSortMode(mode projection.Mode) error {
	if !projection.Valid(mode) {
		return fmt.Errorf("unknown sort mode %q", mode)
	}
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	return nil
}

func (s *Store) SortMode() projection.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Sections returns a copy in canonical rank order.
func (s *Store) Sections() []store.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]store.Section(nil), s.sections...)
}

// Posts returns a copy of the section's posts in canonical rank order.
func (s *Store) Posts(sectionID string) []store.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]store.Post(nil), s.posts[sectionID]...)
}

// ScopeState reports the reconciliation state for a scope: sections via
// SectionScopeState, posts via PostScopeState.
func (s *Store) SectionScopeState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state[sectionScope]
}

func (s *Store) PostScopeState(sectionID string) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state[postScope(sectionID)]
}

// ReorderSections applies the submitted order locally, then writes the full
// id list through. A failed write is reported but the optimistic local state
// is kept; the next remote snapshot is authoritative either way.
func (s *Store) ReorderSections(ctx context.Context, orderedIDs []string) error {
	s.mu.Lock()
	if s.mode != projection.Manual {
		s.mu.Unlock()
		return ErrSortModeActive
	}
	byID := make(map[string]store.Section, len(s.sections))
	for _, sec := range s.sections {
		byID[sec.ID] = sec
	}
	reordered, err := reorderByIDs(byID, orderedIDs, len(s.sections))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.sections = reordered
	s.state[sectionScope] = StateOptimistic
	s.mu.Unlock()

	return s.writer.WriteSectionOrder(ctx, s.boardID, orderedIDs)
}

// ReorderPosts is ReorderSections for a post scope.
func (s *Store) ReorderPosts(ctx context.Context, sectionID string, orderedIDs []string) error {
	s.mu.Lock()
	if s.mode != projection.Manual {
		s.mu.Unlock()
		return ErrSortModeActive
	}
	posts, ok := s.posts[sectionID]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownScope
	}
	byID := make(map[string]store.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	reordered, err := reorderPostsByIDs(byID, orderedIDs, len(posts))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.posts[sectionID] = reordered
	s.state[postScope(sectionID)] = StateOptimistic
	s.mu.Unlock()

	return s.writer.WritePostOrder(ctx, sectionID, orderedIDs)
}

// MovePost reassigns a post across section boundaries: the target receives
// the submitted order including the moved post, the source is renumbered
// dense. Persisted as two coordinated writes; when the second fails after
// the first succeeded the divergence is left for the next reconciliation.
func (s *Store) MovePost(ctx context.Context, postID, fromSectionID, toSectionID string, orderedTargetIDs []string) error {
	s.mu.Lock()
	if s.mode != projection.Manual {
		s.mu.Unlock()
		return ErrSortModeActive
	}
	source, ok := s.posts[fromSectionID]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownScope
	}
	target, ok := s.posts[toSectionID]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownScope
	}

	var moved *store.Post
	remaining := make([]store.Post, 0, len(source))
	for _, p := range source {
		if p.ID == postID {
			cp := p
			moved = &cp
			continue
		}
		remaining = append(remaining, p)
	}
	if moved == nil {
		s.mu.Unlock()
		return ErrBadOrder
	}
	moved.SectionID = toSectionID

	byID := make(map[string]store.Post, len(target)+1)
	for _, p := range target {
		byID[p.ID] = p
	}
	byID[postID] = *moved
	newTarget, err := reorderPostsByIDs(byID, orderedTargetIDs, len(target)+1)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	for i := range remaining {
		remaining[i].Rank = i
	}
	s.posts[fromSectionID] = remaining
	s.posts[toSectionID] = newTarget
	s.state[postScope(fromSectionID)] = StateOptimistic
	s.state[postScope(toSectionID)] = StateOptimistic
	s.mu.Unlock()

	if err := s.writer.InsertIntoSection(ctx, postID, toSectionID, orderedTargetIDs); err != nil {
		return err
	}
	if err := s.writer.RemoveFromSection(ctx, postID, fromSectionID); err != nil {
		return fmt.Errorf("%w: %v", ErrPartialMove, err)
	}
	return nil
}

// AppendSection adds a section at rank max+1 (0 when empty) without
// renumbering existing items.
func (s *Store) AppendSection(sec store.Section) store.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec.Rank = nextRank(len(s.sections), func(i int) int { return s.sections[i].Rank })
	s.sections = append(s.sections, sec)
	if _, ok := s.posts[sec.ID]; !ok {
		s.posts[sec.ID] = nil
	}
	return sec
}

// AppendPost adds a post at the end of its section scope.
func (s *Store) AppendPost(p store.Post) store.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := s.posts[p.SectionID]
	p.Rank = nextRank(len(posts), func(i int) int { return posts[i].Rank })
	s.posts[p.SectionID] = append(posts, p)
	return p
}

// ApplySectionSnapshot installs a remote snapshot of the section scope. The
// remote state always wins, including over a still-in-flight optimistic
// reorder from this or another client.
func (s *Store) ApplySectionSnapshot(sections []store.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = append([]store.Section(nil), sections...)
	s.state[sectionScope] = StateSynced

	known := make(map[string]struct{}, len(sections))
	for _, sec := range sections {
		known[sec.ID] = struct{}{}
		if _, ok := s.posts[sec.ID]; !ok {
			s.posts[sec.ID] = nil
		}
	}
	for id := range s.posts {
		if _, ok := known[id]; !ok {
			delete(s.posts, id)
			delete(s.state, postScope(id))
		}
	}
}

// ApplyPostSnapshot installs a remote snapshot of one section's posts.
func (s *Store) ApplyPostSnapshot(sectionID string, posts []store.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[sectionID] = append([]store.Post(nil), posts...)
	s.state[postScope(sectionID)] = StateSynced
}

func nextRank(n int, rankAt func(int) int) int {
	if n == 0 {
		return 0
	}
	max := rankAt(0)
	for i := 1; i < n; i++ {
		if r := rankAt(i); r > max {
			max = r
		}
	}
	return max + 1
}

func reorderByIDs(byID map[string]store.Section, orderedIDs []string, want int) ([]store.Section, error) {
	if len(orderedIDs) != want {
		return nil, ErrBadOrder
	}
	out := make([]store.Section, 0, want)
	seen := make(map[string]struct{}, want)
	for rank, id := range orderedIDs {
		sec, ok := byID[id]
		if !ok {
			return nil, ErrBadOrder
		}
		if _, dup := seen[id]; dup {
			return nil, ErrBadOrder
		}
		seen[id] = struct{}{}
		sec.Rank = rank
		out = append(out, sec)
	}
	return out, nil
}

func reorderPostsByIDs(byID map[string]store.Post, orderedIDs []string, want int) ([]store.Post, error) {
	if len(orderedIDs) != want {
		return nil, ErrBadOrder
	}
	out := make([]store.Post, 0, want)
	seen := make(map[string]struct{}, want)
	for rank, id := range orderedIDs {
		p, ok := byID[id]
		if !ok {
			return nil, ErrBadOrder
		}
		if _, dup := seen[id]; dup {
			return nil, ErrBadOrder
		}
		seen[id] = struct{}{}
		p.Rank = rank
		out = append(out, p)
	}
	return out, nil
}
