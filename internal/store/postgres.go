package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ahmo/internal/attachment"
)

var ErrNotFound = errors.New("not found")

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Users

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, photo_url)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Email, user.PasswordHash, user.DisplayName, user.PhotoURL)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, display_name, photo_url, created_at
		FROM users WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.PhotoURL, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup user by email: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, display_name, photo_url, created_at
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.PhotoURL, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// Boards

const boardColumns = `id, title, description, privacy, password_hash, guest_permission,
	moderation_enabled, layout, default_sort, background_image, owner_id, created_at`

func scanBoard(row *sql.Row) (Board, error) {
	var b Board
	err := row.Scan(&b.ID, &b.Title, &b.Description, &b.Privacy, &b.PasswordHash, &b.GuestPermission,
		&b.ModerationEnabled, &b.Layout, &b.DefaultSort, &b.BackgroundImage, &b.OwnerID, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Board{}, ErrNotFound
	}
	if err != nil {
		return Board{}, fmt.Errorf("scan board: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) InsertBoard(ctx context.Context, b Board) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO boards (id, title, description, privacy, password_hash, guest_permission,
			moderation_enabled, layout, default_sort, background_image, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, b.ID, b.Title, b.Description, b.Privacy, b.PasswordHash, b.GuestPermission,
		b.ModerationEnabled, b.Layout, b.DefaultSort, b.BackgroundImage, b.OwnerID)
	if err != nil {
		return fmt.Errorf("insert board: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetBoard(ctx context.Context, id string) (Board, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = $1`, id)
	return scanBoard(row)
}

func (s *PostgresStore) ListBoardsByOwner(ctx context.Context, ownerID string) ([]Board, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+boardColumns+` FROM boards WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()
	var out []Board
	for rows.Next() {
		var b Board
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.Privacy, &b.PasswordHash, &b.GuestPermission,
			&b.ModerationEnabled, &b.Layout, &b.DefaultSort, &b.BackgroundImage, &b.OwnerID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateBoardSettings is a field-level update; nil pointers leave the column
// untouched.
func (s *PostgresStore) UpdateBoardSettings(ctx context.Context, id string, fields BoardSettings) error {
	set := []string{}
	args := []any{}
	idx := 1
	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s=$%d", column, idx))
		args = append(args, value)
		idx++
	}
	if fields.Title != nil {
		add("title", *fields.Title)
	}
	if fields.Description != nil {
		add("description", *fields.Description)
	}
	if fields.Privacy != nil {
		add("privacy", *fields.Privacy)
	}
	if fields.PasswordHash != nil {
		add("password_hash", *fields.PasswordHash)
	}
	if fields.GuestPermission != nil {
		add("guest_permission", *fields.GuestPermission)
	}
	if fields.ModerationEnabled != nil {
		add("moderation_enabled", *fields.ModerationEnabled)
	}
	if fields.Layout != nil {
		add("layout", *fields.Layout)
	}
	if fields.DefaultSort != nil {
		add("default_sort", *fields.DefaultSort)
	}
	if fields.BackgroundImage != nil {
		add("background_image", *fields.BackgroundImage)
	}
	if len(set) == 0 {
		return nil
	}
	query := "UPDATE boards SET "
	for i, clause := range set {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += fmt.Sprintf(" WHERE id=$%d", idx)
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update board: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// BoardSettings carries optional board field updates.
type BoardSettings struct {
	Title             *string
	Description       *string
	Privacy           *string
	PasswordHash      *string
	GuestPermission   *string
	ModerationEnabled *bool
	Layout            *string
	DefaultSort       *string
	BackgroundImage   *string
}

func (s *PostgresStore) DeleteBoard(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Sections

// InsertSection assigns rank = max(existing)+1 within the board, or 0 when
// the board has no sections. Existing ranks are never renumbered on append.
func (s *PostgresStore) InsertSection(ctx context.Context, sec Section) (Section, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sections (id, board_id, title, color, rank)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(rank) + 1, 0) FROM sections WHERE board_id = $2))
		RETURNING rank, created_at
	`, sec.ID, sec.BoardID, sec.Title, sec.Color).Scan(&sec.Rank, &sec.CreatedAt)
	if err != nil {
		return Section{}, fmt.Errorf("insert section: %w", err)
	}
	return sec, nil
}

func (s *PostgresStore) GetSection(ctx context.Context, id string) (Section, error) {
	var sec Section
	err := s.db.QueryRowContext(ctx, `
		SELECT id, board_id, title, color, rank, created_at FROM sections WHERE id = $1
	`, id).Scan(&sec.ID, &sec.BoardID, &sec.Title, &sec.Color, &sec.Rank, &sec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Section{}, ErrNotFound
	}
	if err != nil {
		return Section{}, fmt.Errorf("lookup section: %w", err)
	}
	return sec, nil
}

func (s *PostgresStore) ListSections(ctx context.Context, boardID string) ([]Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, board_id, title, color, rank, created_at
		FROM sections WHERE board_id = $1 ORDER BY rank, id
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()
	var out []Section
	for rows.Next() {
		var sec Section
		if err := rows.Scan(&sec.ID, &sec.BoardID, &sec.Title, &sec.Color, &sec.Rank, &sec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateSection(ctx context.Context, id string, title, color *string) error {
	if title == nil && color == nil {
		return nil
	}
	if title != nil && color != nil {
		_, err := s.db.ExecContext(ctx, `UPDATE sections SET title=$1, color=$2 WHERE id=$3`, *title, *color, id)
		return err
	}
	if title != nil {
		_, err := s.db.ExecContext(ctx, `UPDATE sections SET title=$1 WHERE id=$2`, *title, id)
		return err
	}
	_, err := s.db.ExecContext(ctx, `UPDATE sections SET color=$1 WHERE id=$2`, *color, id)
	return err
}

func (s *PostgresStore) DeleteSection(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// WriteSectionOrder persists a full ordered id list for a board's sections,
// renumbering ranks dense 0..n-1 in submitted order.
func (s *PostgresStore) WriteSectionOrder(ctx context.Context, boardID string, orderedIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin section order tx: %w", err)
	}
	for rank, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx, `UPDATE sections SET rank=$1 WHERE id=$2 AND board_id=$3`, rank, id, boardID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("write section rank: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit section order: %w", err)
	}
	return nil
}

// Posts

const postColumns = `id, section_id, title, content, color, rank, status, likes,
	author_token, author_name, author_photo, attachments, poll, created_at`

func scanPost(scan func(dest ...any) error) (Post, error) {
	var p Post
	var attachmentsRaw []byte
	var pollRaw []byte
	err := scan(&p.ID, &p.SectionID, &p.Title, &p.Content, &p.Color, &p.Rank, &p.Status, &p.Likes,
		&p.AuthorToken, &p.AuthorName, &p.AuthorPhoto, &attachmentsRaw, &pollRaw, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("scan post: %w", err)
	}
	if len(attachmentsRaw) > 0 {
		if err := json.Unmarshal(attachmentsRaw, &p.Attachments); err != nil {
			return Post{}, fmt.Errorf("decode attachments: %w", err)
		}
	}
	if len(pollRaw) > 0 {
		var poll Poll
		if err := json.Unmarshal(pollRaw, &poll); err != nil {
			return Post{}, fmt.Errorf("decode poll: %w", err)
		}
		p.Poll = &poll
	}
	return p, nil
}

func encodeAttachments(attachments []attachment.Attachment) ([]byte, error) {
	if attachments == nil {
		attachments = []attachment.Attachment{}
	}
	return json.Marshal(attachments)
}

func encodePoll(poll *Poll) ([]byte, error) {
	if poll == nil {
		return nil, nil
	}
	return json.Marshal(poll)
}

// InsertPost appends the post at rank max+1 within its section.
func (s *PostgresStore) InsertPost(ctx context.Context, p Post) (Post, error) {
	attachmentsRaw, err := encodeAttachments(p.Attachments)
	if err != nil {
		return Post{}, fmt.Errorf("encode attachments: %w", err)
	}
	pollRaw, err := encodePoll(p.Poll)
	if err != nil {
		return Post{}, fmt.Errorf("encode poll: %w", err)
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO posts (id, section_id, title, content, color, rank, status,
			author_token, author_name, author_photo, attachments, poll)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(rank) + 1, 0) FROM posts WHERE section_id = $2),
			$6, $7, $8, $9, $10, $11)
		RETURNING rank, created_at
	`, p.ID, p.SectionID, p.Title, p.Content, p.Color, p.Status,
		p.AuthorToken, p.AuthorName, p.AuthorPhoto, attachmentsRaw, pollRaw).Scan(&p.Rank, &p.CreatedAt)
	if err != nil {
		return Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) GetPost(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row.Scan)
}

func (s *PostgresStore) ListPosts(ctx context.Context, sectionID string) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts WHERE section_id = $1 ORDER BY rank, id
	`, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()
	var out []Post
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdatePost(ctx context.Context, id string, title, content, color *string) error {
	set := []string{}
	args := []any{}
	idx := 1
	if title != nil {
		set = append(set, fmt.Sprintf("title=$%d", idx))
		args = append(args, *title)
		idx++
	}
	if content != nil {
		set = append(set, fmt.Sprintf("content=$%d", idx))
		args = append(args, *content)
		idx++
	}
	if color != nil {
		set = append(set, fmt.Sprintf("color=$%d", idx))
		args = append(args, *color)
		idx++
	}
	if len(set) == 0 {
		return nil
	}
	query := "UPDATE posts SET "
	for i, clause := range set {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += fmt.Sprintf(" WHERE id=$%d", idx)
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// WritePostOrder persists a full ordered id list for a section's posts.
func (s *PostgresStore) WritePostOrder(ctx context.Context, sectionID string, orderedIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin post order tx: %w", err)
	}
	for rank, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET rank=$1 WHERE id=$2 AND section_id=$3`, rank, id, sectionID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("write post rank: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit post order: %w", err)
	}
	return nil
}

// InsertIntoSection reassigns the post to the target section and applies the
// submitted target order. First half of a cross-section move.
func (s *PostgresStore) InsertIntoSection(ctx context.Context, postID, toSectionID string, orderedIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move insert tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE posts SET section_id=$1 WHERE id=$2`, toSectionID, postID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("reassign post section: %w", err)
	}
	for rank, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET rank=$1 WHERE id=$2 AND section_id=$3`, rank, id, toSectionID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("write target rank: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit move insert: %w", err)
	}
	return nil
}

// RemoveFromSection renumbers the source section dense after a move. Second
// half of a cross-section move; may fail independently of the first.
func (s *PostgresStore) RemoveFromSection(ctx context.Context, postID, fromSectionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move remove tx: %w", err)
	}
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM posts WHERE section_id = $1 AND id <> $2 ORDER BY rank, id
	`, fromSectionID, postID)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("list source posts: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			_ = tx.Rollback()
			return fmt.Errorf("scan source post: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		_ = tx.Rollback()
		return err
	}
	for rank, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET rank=$1 WHERE id=$2`, rank, id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("renumber source rank: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit move remove: %w", err)
	}
	return nil
}

// IncrementLikes bumps the counter; the remote count is deliberately not
// idempotent, per-device dedupe is a client-side marker only.
func (s *PostgresStore) IncrementLikes(ctx context.Context, postID string) (int, error) {
	var likes int
	err := s.db.QueryRowContext(ctx, `
		UPDATE posts SET likes = likes + 1 WHERE id = $1 RETURNING likes
	`, postID).Scan(&likes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment likes: %w", err)
	}
	return likes, nil
}

func (s *PostgresStore) UpdatePostStatus(ctx context.Context, postID, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET status=$1 WHERE id=$2`, status, postID)
	if err != nil {
		return fmt.Errorf("update post status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdatePostPoll(ctx context.Context, postID string, poll *Poll) error {
	pollRaw, err := encodePoll(poll)
	if err != nil {
		return fmt.Errorf("encode poll: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET poll=$1 WHERE id=$2`, pollRaw, postID)
	if err != nil {
		return fmt.Errorf("update poll: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdatePostAttachments(ctx context.Context, postID string, attachments []attachment.Attachment) error {
	raw, err := encodeAttachments(attachments)
	if err != nil {
		return fmt.Errorf("encode attachments: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET attachments=$1 WHERE id=$2`, raw, postID)
	if err != nil {
		return fmt.Errorf("update attachments: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApproveAllPosts transitions every pending post on the board to approved.
// Naturally idempotent: a second call matches zero rows.
func (s *PostgresStore) ApproveAllPosts(ctx context.Context, boardID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET status = 'approved'
		WHERE status = 'pending'
			AND section_id IN (SELECT id FROM sections WHERE board_id = $1)
	`, boardID)
	if err != nil {
		return 0, fmt.Errorf("approve all posts: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *PostgresStore) ApproveAllComments(ctx context.Context, boardID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE comments SET status = 'approved'
		WHERE status = 'pending'
			AND post_id IN (
				SELECT p.id FROM posts p
				JOIN sections s ON s.id = p.section_id
				WHERE s.board_id = $1
			)
	`, boardID)
	if err != nil {
		return 0, fmt.Errorf("approve all comments: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Comments

func (s *PostgresStore) InsertComment(ctx context.Context, c Comment) (Comment, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (id, post_id, author_token, author_name, content, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, c.ID, c.PostID, c.AuthorToken, c.AuthorName, c.Content, c.Status).Scan(&c.CreatedAt)
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) GetComment(ctx context.Context, id string) (Comment, error) {
	var c Comment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, post_id, author_token, author_name, content, status, created_at
		FROM comments WHERE id = $1
	`, id).Scan(&c.ID, &c.PostID, &c.AuthorToken, &c.AuthorName, &c.Content, &c.Status, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Comment{}, ErrNotFound
	}
	if err != nil {
		return Comment{}, fmt.Errorf("lookup comment: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, author_token, author_name, content, status, created_at
		FROM comments WHERE post_id = $1 ORDER BY created_at, id
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()
	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorToken, &c.AuthorName, &c.Content, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateCommentStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE comments SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return fmt.Errorf("update comment status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteComment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
