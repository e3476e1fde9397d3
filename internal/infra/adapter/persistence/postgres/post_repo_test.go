package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"tnsystems-site/internal/domain/entity"
	pg "tnsystems-site/internal/infra/adapter/persistence/postgres"
	"tnsystems-site/internal/repository"
)

var postCols = []string{
	"id", "slug", "title", "excerpt", "content", "author",
	"categories", "media_url", "link", "status", "created_at", "updated_at",
}

func postRow(rows *sqlmock.Rows, p *entity.Post, categories string) *sqlmock.Rows {
	return rows.AddRow(p.ID, p.Slug, p.Title, p.Excerpt, p.Content, p.Author,
		categories, p.MediaURL, p.Link, p.Status, p.CreatedAt, p.UpdatedAt)
}

func TestPostRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	want := &entity.Post{
		ID: 7, Slug: "cloud-migration", Title: "Cloud Migration",
		Excerpt: "<p>How we moved</p>", Content: "<p>Body</p>", Author: "Asha",
		Categories: []string{"Cloud", "News"}, MediaURL: "https://cdn.example.com/a.png",
		Link: "https://tnsystems.in/cloud-migration", Status: entity.StatusPublish,
		CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM posts")).
		WithArgs(int64(7)).
		WillReturnRows(postRow(sqlmock.NewRows(postCols), want, "Cloud\x1fNews"))

	got, err := pg.NewPostRepo(db).Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM posts").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(postCols))

	got, err := pg.NewPostRepo(db).Get(context.Background(), 99)
	if err != nil || got != nil {
		t.Fatalf("Get = %v, %v; want nil, nil", got, err)
	}
}

func TestPostRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	rows := sqlmock.NewRows(postCols)
	postRow(rows, &entity.Post{ID: 2, Slug: "b", Title: "B", CreatedAt: now, UpdatedAt: now}, "")
	postRow(rows, &entity.Post{ID: 1, Slug: "a", Title: "A", CreatedAt: now, UpdatedAt: now}, "News")

	mock.ExpectQuery(`FROM posts\s+WHERE \(title ILIKE \$1.*\$2 = ANY\(categories\).*LIMIT \$3 OFFSET \$4`).
		WithArgs("%cloud%", "News", 9, 18).
		WillReturnRows(rows)

	filter := repository.PostFilter{Search: "cloud", Category: "News", PublishedOnly: true}
	got, err := pg.NewPostRepo(db).List(context.Background(), filter, 18, 9)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Categories != nil {
		t.Errorf("empty categories should scan to nil, got %v", got[0].Categories)
	}
	if diff := cmp.Diff([]string{"News"}, got[1].Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostRepo_Count(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts WHERE slug = $1")).
		WithArgs("hello").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	n, err := pg.NewPostRepo(db).Count(context.Background(), repository.PostFilter{Slug: "hello"})
	if err != nil || n != 1 {
		t.Fatalf("Count = %d, %v; want 1, nil", n, err)
	}
}

func TestPostRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	p := &entity.Post{
		Slug: "hello", Title: "Hello", Excerpt: "e", Content: "c", Author: "a",
		Categories: []string{"News", "Tech"}, Status: entity.StatusPublish,
		CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO posts")).
		WithArgs("hello", "Hello", "e", "c", "a", "News\x1fTech", "", "", "publish", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	if err := pg.NewPostRepo(db).Create(context.Background(), p); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if p.ID != 42 {
		t.Errorf("ID = %d, want 42", p.ID)
	}
}

func TestPostRepo_UpdateDelete_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewPostRepo(db)
	if err := repo.Update(context.Background(), &entity.Post{ID: 5}); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Update err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(context.Background(), 5); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Delete err = %v, want ErrNotFound", err)
	}
}

func TestPostRepo_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := pg.NewPostRepo(db).Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
}

func TestPostRepo_ExistsBySlugBatch(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT slug FROM posts")).
		WithArgs("a\x1fb\x1fc").
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("b"))

	got, err := pg.NewPostRepo(db).ExistsBySlugBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("ExistsBySlugBatch err=%v", err)
	}
	want := map[string]bool{"a": false, "b": true, "c": false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPostRepo_ExistsBySlugBatch_Empty(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	got, err := pg.NewPostRepo(db).ExistsBySlugBatch(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostRepo_QueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM posts").WillReturnError(errors.New("connection reset"))

	_, err := pg.NewPostRepo(db).List(context.Background(), repository.PostFilter{}, 0, 10)
	if err == nil {
		t.Fatal("expected error")
	}
}
