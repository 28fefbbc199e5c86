package search

import (
	"context"
	"log"
)

// Service is the facade that tries Meilisearch first and falls back to a
// Postgres substring search.
type Service struct {
	meili *Meili
	pg    *PgLike
}

// NewService creates a search service. meili may be nil when Meilisearch
// is not configured.
func NewService(meili *Meili, pg *PgLike) *Service {
	return &Service{meili: meili, pg: pg}
}

// Search tries Meilisearch if healthy, otherwise falls back to Postgres.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to postgres: %v", err)
	}

	results, total, err := s.pg.Search(q)
	if err != nil {
		log.Printf("search: postgres fallback error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexPost indexes a post, fire-and-forget to Meilisearch.
func (s *Service) IndexPost(p PostRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexPost(p); err != nil {
			log.Printf("search: index post %s: %v", p.ID, err)
		}
	}()
}

// DeletePost removes a post from the search index, fire-and-forget.
func (s *Service) DeletePost(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeletePost(id); err != nil {
			log.Printf("search: delete post %s: %v", id, err)
		}
	}()
}

// DeleteBoard removes a deleted board's posts from the index.
func (s *Service) DeleteBoard(boardID string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteBoard(boardID); err != nil {
			log.Printf("search: delete board %s: %v", boardID, err)
		}
	}()
}

// ReindexBoard reads a board's posts from Postgres and pushes them to
// Meilisearch, used after the index recovers from an outage.
func (s *Service) ReindexBoard(ctx context.Context, boardID string) {
	if s.meili == nil || !s.meili.Healthy() || s.pg == nil {
		return
	}
	records, err := s.pg.LoadBoardRecords(ctx, boardID)
	if err != nil {
		log.Printf("search: reindex load failed: %v", err)
		return
	}
	if err := s.meili.IndexPosts(records); err != nil {
		log.Printf("search: reindex board %s: %v", boardID, err)
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
