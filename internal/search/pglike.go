package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PgLike implements Searcher with a substring match in Postgres as a
// fallback when Meilisearch is unavailable. No ranking beyond canonical
// position; good enough to keep search working during an outage.
type PgLike struct {
	db *sql.DB
}

func NewPgLike(db *sql.DB) *PgLike {
	return &PgLike{db: db}
}

// Healthy always returns true. If Postgres is down the whole app is down.
func (p *PgLike) Healthy() bool {
	return true
}

func (p *PgLike) Search(q Query) ([]Result, int, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	pattern := "%" + escapeLike(q.Text) + "%"
	where := `s.board_id = $1
		AND p.status = 'approved'
		AND (p.title ILIKE $2 OR p.content ILIKE $2 OR p.author_name ILIKE $2)`

	var total int
	countSQL := fmt.Sprintf(`SELECT count(*)
		FROM posts p JOIN sections s ON s.id = p.section_id
		WHERE %s`, where)
	if err := p.db.QueryRow(countSQL, q.BoardID, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("search count: %w", err)
	}

	dataSQL := fmt.Sprintf(`SELECT p.id, s.board_id, p.section_id, p.title,
			left(p.content, 200), p.author_name
		FROM posts p JOIN sections s ON s.id = p.section_id
		WHERE %s
		ORDER BY s.rank, p.rank
		LIMIT %d OFFSET %d`, where, limit, offset)
	rows, err := p.db.Query(dataSQL, q.BoardID, pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.BoardID, &r.SectionID, &r.Title, &r.Snippet, &r.AuthorName); err != nil {
			return nil, 0, fmt.Errorf("search scan: %w", err)
		}
		results = append(results, r)
	}
	return results, total, rows.Err()
}

// LoadBoardRecords reads every post of a board for reindexing.
func (p *PgLike) LoadBoardRecords(ctx context.Context, boardID string) ([]PostRecord, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT p.id, s.board_id, p.section_id,
			p.title, p.content, p.author_name, p.status
		FROM posts p JOIN sections s ON s.id = p.section_id
		WHERE s.board_id = $1`, boardID)
	if err != nil {
		return nil, fmt.Errorf("load search records: %w", err)
	}
	defer rows.Close()

	var records []PostRecord
	for rows.Next() {
		var r PostRecord
		if err := rows.Scan(&r.ID, &r.BoardID, &r.SectionID, &r.Title, &r.Content, &r.AuthorName, &r.Status); err != nil {
			return nil, fmt.Errorf("scan search record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
