package collection

import (
	"context"
	"errors"
	"testing"

	"ahmo/internal/projection"
	"ahmo/internal/store"
)

type fakeWriter struct {
	sectionOrders [][]string
	postOrders    map[string][][]string
	inserts       []string
	removes       []string

	failSectionOrder bool
	failInsert       bool
	failRemove       bool
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{postOrders: make(map[string][][]string)}
}

func (w *fakeWriter) WriteSectionOrder(_ context.Context, _ string, orderedIDs []string) error {
	if w.failSectionOrder {
		return errors.New("write failed")
	}
	w.sectionOrders = append(w.sectionOrders, orderedIDs)
	return nil
}

func (w *fakeWriter) WritePostOrder(_ context.Context, sectionID string, orderedIDs []string) error {
	w.postOrders[sectionID] = append(w.postOrders[sectionID], orderedIDs)
	return nil
}

func (w *fakeWriter) InsertIntoSection(_ context.Context, postID, toSectionID string, _ []string) error {
	if w.failInsert {
		return errors.New("insert failed")
	}
	w.inserts = append(w.inserts, postID+"->"+toSectionID)
	return nil
}

func (w *fakeWriter) RemoveFromSection(_ context.Context, postID, fromSectionID string) error {
	if w.failRemove {
		return errors.New("remove failed")
	}
	w.removes = append(w.removes, postID+"<-"+fromSectionID)
	return nil
}

func section(id string, rank int) store.Section {
	return store.Section{ID: id, BoardID: "board-1", Rank: rank}
}

func post(id, sectionID string, rank int) store.Post {
	return store.Post{ID: id, SectionID: sectionID, Rank: rank}
}

func loaded(w RankWriter) *Store {
	s := NewStore("board-1", w)
	s.Load(
		[]store.Section{section("s1", 0), section("s2", 1)},
		map[string][]store.Post{
			"s1": {post("A", "s1", 0), post("B", "s1", 1), post("C", "s1", 2)},
			"s2": {post("D", "s2", 0)},
		},
	)
	return s
}

func ids(posts []store.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func assertOrder(t *testing.T, posts []store.Post, want ...string) {
	t.Helper()
	got := ids(posts)
	if len(got) != len(want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
		if posts[i].Rank != i {
			t.Fatalf("rank not dense at %d: %+v", i, posts[i])
		}
	}
}

func TestReorderPostsOptimisticAndDense(t *testing.T) {
	w := newFakeWriter()
	s := loaded(w)

	if err := s.ReorderPosts(context.Background(), "s1", []string{"C", "A", "B"}); err != nil {
		t.Fatalf("ReorderPosts failed: %v", err)
	}
	assertOrder(t, s.Posts("s1"), "C", "A", "B")
	if s.PostScopeState("s1") != StateOptimistic {
		t.Fatal("expected optimistic state after local reorder")
	}
	if len(w.postOrders["s1"]) != 1 {
		t.Fatalf("expected one write, got %d", len(w.postOrders["s1"]))
	}
}

func TestRemoteSnapshotWinsOverOptimisticReorder(t *testing.T) {
	w := newFakeWriter()
	s := loaded(w)

	if err := s.ReorderPosts(context.Background(), "s1", []string{"C", "A", "B"}); err != nil {
		t.Fatalf("ReorderPosts failed: %v", err)
	}

	// A concurrent client's write arrives after ours
	s.ApplyPostSnapshot("s1", []store.Post{
		post("B", "s1", 0), post("C", "s1", 1), post("A", "s1", 2),
	})

	assertOrder(t, s.Posts("s1"), "B", "C", "A")
	if s.PostScopeState("s1") != StateSynced {
		t.Fatal("expected synced state after snapshot")
	}
}

func TestReorderRejectsNonPermutation(t *testing.T) {
	w := newFakeWriter()
	s := loaded(w)
	ctx := context.Background()

	cases := [][]string{
		{"A", "B"},                // missing id
		{"A", "B", "C", "D"},      // foreign id
		{"A", "A", "B"},           // duplicate
		{"A", "B", "X"},           // unknown id
	}
	for _, c := range cases {
		if err := s.ReorderPosts(ctx, "s1", c); !errors.Is(err, ErrBadOrder) {
			t.Fatalf("expected ErrBadOrder for %v, got %v", c, err)
		}
	}
	assertOrder(t, s.Posts("s1"), "A", "B", "C")
	if len(w.postOrders["s1"]) != 0 {
		t.Fatal("rejected reorder must not write")
	}
}

func TestReorderGuardedBySortMode(t *testing.T) {
	w := newFakeWriter()
	s := loaded(w)
	ctx := context.Background()

	if err := s.SetSortMode(projection.TitleAsc); err != nil {
		t.Fatalf("SetSortMode failed: %v", err)
	}
	if err := s.ReorderPosts(ctx, "s1", []string{"C", "A", "B"}); !errors.Is(err, ErrSortModeActive) {
		t.Fatalf("expected ErrSortModeActive, got %v", err)
	}
	if err := s.ReorderSections(ctx, []string{"s2", "s1"}); !errors.Is(err, ErrSortModeActive) {
		t.Fatalf("expected ErrSortModeActive, got %v", err)
	}
	assertOrder(t, s.Posts("s1"), "A", "B", "C")

	// back to manual re-enables reordering
	if err := s.SetSortMode(projection.Manual); err != nil {
		t.Fatalf("SetSortMode failed: %v", err)
	}
	if err := s.ReorderPosts(ctx, "s1", []string{"C", "A", "B"}); err != nil {
		t.Fatalf("ReorderPosts failed: %v", err)
	}
}

func TestSetSortModeRejectsUnknown(t *testing.T) {
	s := loaded(newFakeWriter())
	if err := s.SetSortMode("likes"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestReorderSections(t *testing.T) {
	w := newFakeWriter()
	s := loaded(w)

	if err := s.ReorderSections(context.Background(), []string{"s2", "s1"}); err != nil {
		t.Fatalf("ReorderSections failed: %v", err)
	}
	secs := s.Sections()
	if secs[0].ID != "s2" || secs[0].Rank != 0 || secs[1].ID != "s1" || secs[1].Rank != 1 {
		t.Fatalf("unexpected section order: %+v", secs)
	}
	if s.SectionScopeState() != StateOptimistic {
		t.Fatal("expected optimistic state")
	}
}

func TestFailedWriteKeepsOptimisticState(t *testing.T) {
	w := newFakeWriter()
	w.failSectionOrder = true
	s := loaded(w)

	err := s.ReorderSections(context.Background(), []string{"s2", "s1"})
	if err == nil {
		t.Fatal("expected write error")
	}
	// no rollback: the next remote snapshot corrects any divergence
	secs := s.Sections()
	if secs[0].ID != "s2" {
		t.Fatalf("optimistic state must be kept, got %+v", secs)
	}
	if s.SectionScopeState() != StateOptimistic {
		t.Fatal("scope must stay optimistic until a snapshot arrives")
	}
}

func TestAppendAssignsNextRank(t *testing.T) {
	s := loaded(newFakeWriter())

	p := s.AppendPost(post("E", "s1", 0))
	if p.Rank != 3 {
		t.Fatalf("expected rank 3, got %d", p.Rank)
	}
	sec := s.AppendSection(section("s3", 0))
	if sec.Rank != 2 {
		t.Fatalf("expected rank 2, got %d", sec.Rank)
	}
	// empty scope starts at 0
	p = s.AppendPost(post("F", "s3", 0))
	if p.Rank != 0 {
		t.Fatalf("expected rank 0 in empty scope, got %d", p.Rank)
	}
}

func TestMovePostAcrossSections(t *testing.T) {
	w := newFakeWriter()
	s := loaded(w)

	err := s.MovePost(context.Background(), "B", "s1", "s2", []string{"D", "B"})
	if err != nil {
		t.Fatalf("MovePost failed: %v", err)
	}
	assertOrder(t, s.Posts("s1"), "A", "C")
	assertOrder(t, s.Posts("s2"), "D", "B")
	if got := s.Posts("s2")[1].SectionID; got != "s2" {
		t.Fatalf("moved post must be reassigned, got section %s", got)
	}
	if len(w.inserts) != 1 || len(w.removes) != 1 {
		t.Fatalf("expected coordinated writes, got inserts=%v removes=%v", w.inserts, w.removes)
	}
}

func TestMovePostPartialFailure(t *testing.T) {
	w := newFakeWriter()
	w.failRemove = true
	s := loaded(w)

	err := s.MovePost(context.Background(), "B", "s1", "s2", []string{"D", "B"})
	if !errors.Is(err, ErrPartialMove) {
		t.Fatalf("expected ErrPartialMove, got %v", err)
	}
	// local state already reflects the move; the stale remote source order
	// is corrected by the next reconciliation
	assertOrder(t, s.Posts("s2"), "D", "B")
}

func TestMovePostValidation(t *testing.T) {
	s := loaded(newFakeWriter())
	ctx := context.Background()

	if err := s.MovePost(ctx, "Z", "s1", "s2", []string{"D", "Z"}); !errors.Is(err, ErrBadOrder) {
		t.Fatalf("expected ErrBadOrder for unknown post, got %v", err)
	}
	if err := s.MovePost(ctx, "B", "s1", "missing", []string{"B"}); !errors.Is(err, ErrUnknownScope) {
		t.Fatalf("expected ErrUnknownScope, got %v", err)
	}
	if err := s.MovePost(ctx, "B", "s1", "s2", []string{"D"}); !errors.Is(err, ErrBadOrder) {
		t.Fatalf("expected ErrBadOrder for incomplete target order, got %v", err)
	}
}

func TestSectionSnapshotDropsOrphanedPostScopes(t *testing.T) {
	s := loaded(newFakeWriter())

	s.ApplySectionSnapshot([]store.Section{section("s1", 0)})
	if got := s.Posts("s2"); len(got) != 0 {
		t.Fatalf("expected orphaned scope dropped, got %v", got)
	}
	if got := s.Posts("s1"); len(got) != 3 {
		t.Fatalf("surviving scope must keep posts, got %d", len(got))
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := loaded(newFakeWriter())

	posts := s.Posts("s1")
	posts[0].Title = "mutated"
	if s.Posts("s1")[0].Title == "mutated" {
		t.Fatal("reads must return immutable snapshots")
	}

	secs := s.Sections()
	secs[0].Title = "mutated"
	if s.Sections()[0].Title == "mutated" {
		t.Fatal("reads must return immutable snapshots")
	}
}
