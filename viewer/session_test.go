package viewer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-postview/posts"
	"github.com/google/uuid"
)

func newFixture(t *testing.T) (posts.Service, *posts.Post, posts.Viewer) {
	t.Helper()
	svc := posts.NewService(
		posts.NewMemoryPostRepository(),
		posts.NewMemoryCommentRepository(),
		posts.NewMemoryLikeRepository(),
		posts.WithClock(func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC) }),
	)
	post, err := svc.Create(context.Background(), posts.CreatePostRequest{
		Title:    "Community Garden Opens",
		Category: "news",
		Status:   posts.StatusPublished,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	viewer := posts.Viewer{
		ID:   uuid.MustParse("40000000-0000-0000-0000-000000000001"),
		Name: "maria",
	}
	return svc, post, viewer
}

// failingService wraps a real service and fails the mutating calls so the
// rollback paths can be exercised.
type failingService struct {
	posts.Service
	failToggle  bool
	failComment bool
}

var errBoom = errors.New("boom")

func (f *failingService) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, *posts.Post, error) {
	if f.failToggle {
		return false, nil, errBoom
	}
	return f.Service.ToggleLike(ctx, postID, userID)
}

func (f *failingService) AddComment(ctx context.Context, req posts.AddCommentRequest) (*posts.Comment, *posts.Post, error) {
	if f.failComment {
		return nil, nil, errBoom
	}
	return f.Service.AddComment(ctx, req)
}

func TestSession_LoadReady(t *testing.T) {
	svc, post, viewer := newFixture(t)
	session := NewSession(svc, post.ID, WithViewer(viewer))

	if session.State() != StateLoading {
		t.Fatalf("expected initial loading state, got %s", session.State())
	}
	if state := session.Load(context.Background()); state != StateReady {
		t.Fatalf("expected ready, got %s (err=%v)", state, session.Err())
	}
	if session.Post() == nil || session.Post().Title != "Community Garden Opens" {
		t.Fatalf("unexpected post: %+v", session.Post())
	}
	if session.Liked() || session.LikeCount() != 0 {
		t.Fatalf("fresh session should have no like state")
	}
	if len(session.Comments()) != 0 {
		t.Fatalf("fresh session should have no comments")
	}
}

func TestSession_LoadNotFound(t *testing.T) {
	svc, _, _ := newFixture(t)
	session := NewSession(svc, uuid.MustParse("40000000-0000-0000-0000-0000000000ff"))

	if state := session.Load(context.Background()); state != StateNotFound {
		t.Fatalf("expected not found, got %s", state)
	}
}

func TestSession_ToggleLike(t *testing.T) {
	svc, post, viewer := newFixture(t)
	session := NewSession(svc, post.ID, WithViewer(viewer))
	ctx := context.Background()
	session.Load(ctx)

	liked, err := session.ToggleLike(ctx)
	if err != nil || !liked {
		t.Fatalf("first toggle: liked=%v err=%v", liked, err)
	}
	if session.LikeCount() != 1 {
		t.Fatalf("expected count 1, got %d", session.LikeCount())
	}

	liked, err = session.ToggleLike(ctx)
	if err != nil || liked {
		t.Fatalf("second toggle: liked=%v err=%v", liked, err)
	}
	if session.LikeCount() != 0 {
		t.Fatalf("expected count 0, got %d", session.LikeCount())
	}
}

func TestSession_ToggleLikeRollback(t *testing.T) {
	svc, post, viewer := newFixture(t)
	failing := &failingService{Service: svc, failToggle: true}
	session := NewSession(failing, post.ID, WithViewer(viewer))
	ctx := context.Background()
	session.Load(ctx)

	liked, err := session.ToggleLike(ctx)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected persistence failure, got %v", err)
	}
	if liked || session.Liked() || session.LikeCount() != 0 {
		t.Fatalf("optimistic like state not rolled back: liked=%v count=%d", session.Liked(), session.LikeCount())
	}

	// The guard is cleared so a retry can proceed.
	failing.failToggle = false
	if liked, err := session.ToggleLike(ctx); err != nil || !liked {
		t.Fatalf("retry after failure: liked=%v err=%v", liked, err)
	}
}

func TestSession_ToggleLikeRequiresViewer(t *testing.T) {
	svc, post, _ := newFixture(t)
	session := NewSession(svc, post.ID)
	ctx := context.Background()
	session.Load(ctx)

	if _, err := session.ToggleLike(ctx); !errors.Is(err, ErrViewerRequired) {
		t.Fatalf("expected viewer requirement, got %v", err)
	}
}

func TestSession_ToggleLikeNotReady(t *testing.T) {
	svc, post, viewer := newFixture(t)
	session := NewSession(svc, post.ID, WithViewer(viewer))

	if _, err := session.ToggleLike(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected not-ready rejection, got %v", err)
	}
}

func TestSession_SubmitComment(t *testing.T) {
	svc, post, viewer := newFixture(t)
	session := NewSession(svc, post.ID, WithViewer(viewer))
	ctx := context.Background()
	session.Load(ctx)

	created, err := session.SubmitComment(ctx, "wonderful news")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("expected persisted comment id")
	}

	comments := session.Comments()
	if len(comments) != 1 || comments[0].ID != created.ID {
		t.Fatalf("expected persisted comment at head, got %+v", comments)
	}
	if session.Post().CommentCount != 1 {
		t.Fatalf("expected comment count 1, got %d", session.Post().CommentCount)
	}
}

func TestSession_SubmitCommentRollback(t *testing.T) {
	svc, post, viewer := newFixture(t)
	failing := &failingService{Service: svc, failComment: true}
	session := NewSession(failing, post.ID, WithViewer(viewer))
	ctx := context.Background()
	session.Load(ctx)

	if _, err := session.SubmitComment(ctx, "lost"); !errors.Is(err, errBoom) {
		t.Fatalf("expected persistence failure, got %v", err)
	}
	if len(session.Comments()) != 0 {
		t.Fatalf("optimistic comment not rolled back: %+v", session.Comments())
	}
}

func TestSession_SubmitCommentRequiresViewer(t *testing.T) {
	svc, post, _ := newFixture(t)
	session := NewSession(svc, post.ID)
	ctx := context.Background()
	session.Load(ctx)

	if _, err := session.SubmitComment(ctx, "anonymous"); !errors.Is(err, ErrViewerRequired) {
		t.Fatalf("expected viewer requirement, got %v", err)
	}
}
