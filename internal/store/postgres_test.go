package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func TestInsertSectionAssignsAppendRank(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sections")).
		WithArgs("sec_1", "brd_1", "Ideas", "#fff").
		WillReturnRows(sqlmock.NewRows([]string{"rank", "created_at"}).AddRow(3, time.Now()))

	sec, err := s.InsertSection(context.Background(), Section{ID: "sec_1", BoardID: "brd_1", Title: "Ideas", Color: "#fff"})
	if err != nil {
		t.Fatalf("insert section: %v", err)
	}
	if sec.Rank != 3 {
		t.Fatalf("rank = %d, want 3", sec.Rank)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestWriteSectionOrderRenumbersInOneTx(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sections SET rank=$1 WHERE id=$2 AND board_id=$3")).
		WithArgs(0, "sec_b", "brd_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sections SET rank=$1 WHERE id=$2 AND board_id=$3")).
		WithArgs(1, "sec_a", "brd_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.WriteSectionOrder(context.Background(), "brd_1", []string{"sec_b", "sec_a"}); err != nil {
		t.Fatalf("write section order: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestWriteSectionOrderRollsBackOnFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sections SET rank=$1")).
		WithArgs(0, "sec_b", "brd_1").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := s.WriteSectionOrder(context.Background(), "brd_1", []string{"sec_b", "sec_a"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestApproveAllPostsCountsUpdatedRows(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET status = 'approved'")).
		WithArgs("brd_1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.ApproveAllPosts(context.Background(), "brd_1")
	if err != nil {
		t.Fatalf("approve all: %v", err)
	}
	if n != 4 {
		t.Fatalf("approved = %d, want 4", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetPostDecodesPollAndAttachments(t *testing.T) {
	s, mock := newMockStore(t)

	created := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "section_id", "title", "content", "color", "rank", "status", "likes",
		"author_token", "author_name", "author_photo", "attachments", "poll", "created_at",
	}).AddRow(
		"post_1", "sec_1", "Lunch", "", "", 0, "approved", 2,
		"guest:Alex", "Alex", "",
		[]byte(`[{"type":"image","url":"https://cdn.example/x.png"}]`),
		[]byte(`{"question":"Where?","options":[{"id":"opt_a","text":"Pizza","voters":["guest:Sam"]}]}`),
		created,
	)
	mock.ExpectQuery("SELECT .+ FROM posts WHERE id = \\$1").
		WithArgs("post_1").
		WillReturnRows(rows)

	p, err := s.GetPost(context.Background(), "post_1")
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if len(p.Attachments) != 1 || p.Attachments[0].URL != "https://cdn.example/x.png" {
		t.Fatalf("attachments not decoded: %+v", p.Attachments)
	}
	if p.Poll == nil || p.Poll.TotalVotes() != 1 {
		t.Fatalf("poll not decoded: %+v", p.Poll)
	}
}

func TestUpdateBoardSettingsSkipsUnsetFields(t *testing.T) {
	s, mock := newMockStore(t)

	title := "Renamed"
	sort := "title-asc"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE boards SET title=$1, default_sort=$2 WHERE id=$3")).
		WithArgs("Renamed", "title-asc", "brd_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateBoardSettings(context.Background(), "brd_1", BoardSettings{Title: &title, DefaultSort: &sort})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateBoardSettingsNoFieldsIsNoOp(t *testing.T) {
	s, mock := newMockStore(t)

	if err := s.UpdateBoardSettings(context.Background(), "brd_1", BoardSettings{}); err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestIncrementLikesUnknownPost(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE posts SET likes = likes + 1")).
		WithArgs("post_missing").
		WillReturnRows(sqlmock.NewRows([]string{"likes"}))

	_, err := s.IncrementLikes(context.Background(), "post_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
