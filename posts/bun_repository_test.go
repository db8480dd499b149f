package posts

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "posts.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, model := range []any{(*Post)(nil), (*Comment)(nil), (*Like)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func sqlitePost(slug, category string, status Status) *Post {
	now := time.Now().UTC()
	return &Post{
		ID:        uuid.New(),
		Category:  category,
		Status:    status,
		Slug:      slug,
		Title:     slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestBunPostRepository_CreateAndGet(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewBunPostRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, sqlitePost("garden-opening", "news", StatusPublished))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bySlug, err := repo.GetBySlug(ctx, "garden-opening")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.ID != created.ID {
		t.Fatalf("slug lookup returned %s, want %s", bySlug.ID, created.ID)
	}

	if _, err := repo.GetByID(ctx, uuid.New()); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBunPostRepository_ListFiltersAndOrders(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewBunPostRepository(db)
	ctx := context.Background()

	for _, post := range []*Post{
		sqlitePost("alpha", "news", StatusPublished),
		sqlitePost("bravo", "news", StatusDraft),
		sqlitePost("charlie", "news", StatusPublished),
		sqlitePost("delta", "events", StatusPublished),
	} {
		if _, err := repo.Create(ctx, post); err != nil {
			t.Fatalf("create %s: %v", post.Slug, err)
		}
	}

	records, err := repo.List(ctx, ListOptions{Category: "news", OrderField: "title", OrderDesc: true, Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].Slug != "charlie" {
		t.Fatalf("unexpected listing: %+v", records)
	}

	all, err := repo.List(ctx, ListOptions{Category: "news", IncludeDrafts: true})
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 news posts with drafts, got %d", len(all))
	}
}

func TestBunPostRepository_AdjustCountersClampsAtZero(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewBunPostRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, sqlitePost("counters", "news", StatusPublished))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.AdjustCounters(ctx, created.ID, 1, 2)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if updated.LikeCount != 1 || updated.CommentCount != 2 {
		t.Fatalf("counters = %d/%d, want 1/2", updated.LikeCount, updated.CommentCount)
	}

	for i := 0; i < 3; i++ {
		if updated, err = repo.AdjustCounters(ctx, created.ID, -1, 0); err != nil {
			t.Fatalf("adjust down: %v", err)
		}
	}
	if updated.LikeCount != 0 {
		t.Fatalf("like count = %d, want clamp at 0", updated.LikeCount)
	}
	if updated.CommentCount != 2 {
		t.Fatalf("comment count = %d, want 2", updated.CommentCount)
	}

	if _, err := repo.AdjustCounters(ctx, uuid.New(), 1, 0); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBunLikeRepository_DuplicatePairRejected(t *testing.T) {
	db := newSQLiteDB(t)
	postsRepo := NewBunPostRepository(db)
	likes := NewBunLikeRepository(db)
	ctx := context.Background()

	post, err := postsRepo.Create(ctx, sqlitePost("liked", "news", StatusPublished))
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	userID := uuid.MustParse("60000000-0000-0000-0000-000000000001")
	like := &Like{ID: uuid.New(), PostID: post.ID, UserID: userID, CreatedAt: time.Now().UTC()}
	if _, err := likes.Create(ctx, like); err != nil {
		t.Fatalf("create like: %v", err)
	}
	if _, err := likes.Create(ctx, like); err == nil {
		t.Fatalf("expected duplicate like rejection")
	}

	if _, err := likes.GetByPostAndUser(ctx, post.ID, userID); err != nil {
		t.Fatalf("get like: %v", err)
	}
	if err := likes.DeleteByPostAndUser(ctx, post.ID, userID); err != nil {
		t.Fatalf("delete like: %v", err)
	}
	if _, err := likes.GetByPostAndUser(ctx, post.ID, userID); !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
