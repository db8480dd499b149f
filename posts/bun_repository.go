package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunPostRepository implements PostRepository over uptrace/bun with optional
// read caching.
type BunPostRepository struct {
	repo repository.Repository[*Post]
	db   *bun.DB
	now  func() time.Time
}

// NewBunPostRepository creates a post repository without caching.
func NewBunPostRepository(db *bun.DB) *BunPostRepository {
	return NewBunPostRepositoryWithCache(db, nil, nil)
}

// NewBunPostRepositoryWithCache creates a post repository with caching.
func NewBunPostRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunPostRepository {
	base := NewPostModelRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunPostRepository{repo: base, db: db, now: time.Now}
}

func (r *BunPostRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	record, err := r.repo.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("post repository error: %w", err)
	}
	return record, nil
}

func (r *BunPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post", id.String())
	}
	return record, nil
}

func (r *BunPostRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "post", slug)
	}
	return record, nil
}

func (r *BunPostRepository) List(ctx context.Context, opts ListOptions) ([]*Post, error) {
	now := r.now()
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("?TableAlias.deleted_at IS NULL")
		if opts.Category != "" {
			q = q.Where("?TableAlias.category = ?", opts.Category)
		}
		if !opts.IncludeDrafts {
			q = q.Where("?TableAlias.status = ?", StatusPublished).
				Where("(?TableAlias.publish_at IS NULL OR ?TableAlias.publish_at <= ?)", now).
				Where("(?TableAlias.unpublish_at IS NULL OR ?TableAlias.unpublish_at > ?)", now)
		}
		field := opts.OrderField
		if field == "" {
			field = "created_at"
		}
		direction := "ASC"
		if opts.OrderDesc {
			direction = "DESC"
		}
		q = q.OrderExpr("?TableAlias.? ?", bun.Ident(field), bun.Safe(direction))
		if opts.Limit > 0 {
			q = q.Limit(opts.Limit)
		}
		return q
	}))
	if err != nil {
		return nil, fmt.Errorf("post repository error: %w", err)
	}
	return records, nil
}

func (r *BunPostRepository) Update(ctx context.Context, post *Post) (*Post, error) {
	record, err := r.repo.Update(ctx, post)
	if err != nil {
		return nil, mapRepositoryError(err, "post", post.ID.String())
	}
	return record, nil
}

func (r *BunPostRepository) Delete(ctx context.Context, id uuid.UUID, hard bool) error {
	if hard {
		if _, err := r.db.NewDelete().Model((*Post)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("post repository error: %w", err)
		}
		return nil
	}
	now := r.now()
	result, err := r.db.NewUpdate().Model((*Post)(nil)).
		Set("deleted_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ? AND deleted_at IS NULL", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("post repository error: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Resource: "post", Key: id.String()}
	}
	return nil
}

// AdjustCounters applies the deltas inside a single UPDATE so concurrent
// likes and comments never lose increments, clamping both counters at zero.
func (r *BunPostRepository) AdjustCounters(ctx context.Context, id uuid.UUID, likeDelta, commentDelta int) (*Post, error) {
	result, err := r.db.NewUpdate().Model((*Post)(nil)).
		Set("like_count = CASE WHEN like_count + ? < 0 THEN 0 ELSE like_count + ? END", likeDelta, likeDelta).
		Set("comment_count = CASE WHEN comment_count + ? < 0 THEN 0 ELSE comment_count + ? END", commentDelta, commentDelta).
		Set("updated_at = ?", r.now()).
		Where("id = ? AND deleted_at IS NULL", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("post repository error: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	return r.GetByID(ctx, id)
}

// BunCommentRepository implements CommentRepository over uptrace/bun.
type BunCommentRepository struct {
	repo repository.Repository[*Comment]
	db   *bun.DB
}

// NewBunCommentRepository creates a comment repository.
func NewBunCommentRepository(db *bun.DB) *BunCommentRepository {
	return &BunCommentRepository{repo: NewCommentModelRepository(db), db: db}
}

func (r *BunCommentRepository) Create(ctx context.Context, comment *Comment) (*Comment, error) {
	record, err := r.repo.Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("comment repository error: %w", err)
	}
	return record, nil
}

func (r *BunCommentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.post_id = ?", postID).
			Where("?TableAlias.deleted_at IS NULL").
			OrderExpr("?TableAlias.created_at DESC")
	}))
	if err != nil {
		return nil, fmt.Errorf("comment repository error: %w", err)
	}
	return records, nil
}

func (r *BunCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewUpdate().Model((*Comment)(nil)).
		Set("deleted_at = ?", time.Now()).
		Where("id = ? AND deleted_at IS NULL", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("comment repository error: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Resource: "comment", Key: id.String()}
	}
	return nil
}

// BunLikeRepository implements LikeRepository over uptrace/bun.
type BunLikeRepository struct {
	repo repository.Repository[*Like]
	db   *bun.DB
}

// NewBunLikeRepository creates a like repository.
func NewBunLikeRepository(db *bun.DB) *BunLikeRepository {
	return &BunLikeRepository{repo: NewLikeModelRepository(db), db: db}
}

func (r *BunLikeRepository) Create(ctx context.Context, like *Like) (*Like, error) {
	record, err := r.repo.Create(ctx, like)
	if err != nil {
		return nil, fmt.Errorf("like repository error: %w", err)
	}
	return record, nil
}

func (r *BunLikeRepository) GetByPostAndUser(ctx context.Context, postID, userID uuid.UUID) (*Like, error) {
	like := new(Like)
	err := r.db.NewSelect().Model(like).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "like", Key: likePairKey(postID, userID)}
		}
		return nil, fmt.Errorf("like repository error: %w", err)
	}
	return like, nil
}

func (r *BunLikeRepository) DeleteByPostAndUser(ctx context.Context, postID, userID uuid.UUID) error {
	result, err := r.db.NewDelete().Model((*Like)(nil)).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("like repository error: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Resource: "like", Key: likePairKey(postID, userID)}
	}
	return nil
}

func (r *BunLikeRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int, error) {
	count, err := r.db.NewSelect().Model((*Like)(nil)).
		Where("post_id = ?", postID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("like repository error: %w", err)
	}
	return count, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

var (
	_ PostRepository    = (*BunPostRepository)(nil)
	_ CommentRepository = (*BunCommentRepository)(nil)
	_ LikeRepository    = (*BunLikeRepository)(nil)
)
