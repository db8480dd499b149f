package posts

import (
	"context"

	"github.com/google/uuid"
)

// PostRepository persists posts. Implementations must keep the denormalized
// counters consistent through AdjustCounters rather than read-then-write
// updates so concurrent likes cannot lose increments.
type PostRepository interface {
	Create(ctx context.Context, post *Post) (*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, opts ListOptions) ([]*Post, error)
	Update(ctx context.Context, post *Post) (*Post, error)
	Delete(ctx context.Context, id uuid.UUID, hard bool) error
	// AdjustCounters applies like/comment deltas atomically, clamping both
	// counters at zero, and returns the updated post.
	AdjustCounters(ctx context.Context, id uuid.UUID, likeDelta, commentDelta int) (*Post, error)
}

// CommentRepository persists reader comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) (*Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LikeRepository persists per-user like records.
type LikeRepository interface {
	Create(ctx context.Context, like *Like) (*Like, error)
	GetByPostAndUser(ctx context.Context, postID, userID uuid.UUID) (*Like, error)
	DeleteByPostAndUser(ctx context.Context, postID, userID uuid.UUID) error
	CountByPost(ctx context.Context, postID uuid.UUID) (int, error)
}
