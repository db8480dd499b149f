package posts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryLikeRepository_DuplicatePairRejected(t *testing.T) {
	repo := NewMemoryLikeRepository()
	ctx := context.Background()

	postID := uuid.MustParse("70000000-0000-0000-0000-000000000001")
	userID := uuid.MustParse("70000000-0000-0000-0000-000000000002")
	like := &Like{ID: uuid.New(), PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}

	if _, err := repo.Create(ctx, like); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, like); !errors.Is(err, ErrLikeExists) {
		t.Fatalf("expected ErrLikeExists, got %v", err)
	}

	count, err := repo.CountByPost(ctx, postID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}
