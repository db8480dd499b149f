package posts

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-postview/template"
	"github.com/google/uuid"
)

// NewMemoryPostRepository constructs an in-memory post repository.
func NewMemoryPostRepository() PostRepository {
	return &memoryPostRepository{
		byID:   make(map[uuid.UUID]*Post),
		bySlug: make(map[string]uuid.UUID),
		now:    time.Now,
	}
}

type memoryPostRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Post
	bySlug map[string]uuid.UUID
	now    func() time.Time
}

func (m *memoryPostRepository) Create(_ context.Context, post *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bySlug[post.Slug]; exists {
		return nil, ErrSlugExists
	}

	cloned := clonePost(post)
	m.byID[cloned.ID] = cloned
	m.bySlug[cloned.Slug] = cloned.ID
	return clonePost(cloned), nil
}

func (m *memoryPostRepository) GetByID(_ context.Context, id uuid.UUID) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok || record.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	return clonePost(record), nil
}

func (m *memoryPostRepository) GetBySlug(_ context.Context, slug string) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: slug}
	}
	record := m.byID[id]
	if record == nil || record.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "post", Key: slug}
	}
	return clonePost(record), nil
}

func (m *memoryPostRepository) List(_ context.Context, opts ListOptions) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	records := make([]*Post, 0, len(m.byID))
	for _, record := range m.byID {
		if record.DeletedAt != nil {
			continue
		}
		if opts.Category != "" && record.Category != opts.Category {
			continue
		}
		if !opts.IncludeDrafts && !record.IsVisible(now) {
			continue
		}
		records = append(records, clonePost(record))
	}

	sortPosts(records, opts.OrderField, opts.OrderDesc)
	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}
	return records, nil
}

func (m *memoryPostRepository) Update(_ context.Context, post *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[post.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: post.ID.String()}
	}
	if existing.Slug != post.Slug {
		if _, taken := m.bySlug[post.Slug]; taken {
			return nil, ErrSlugExists
		}
		delete(m.bySlug, existing.Slug)
		m.bySlug[post.Slug] = post.ID
	}

	cloned := clonePost(post)
	m.byID[cloned.ID] = cloned
	return clonePost(cloned), nil
}

func (m *memoryPostRepository) Delete(_ context.Context, id uuid.UUID, hard bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "post", Key: id.String()}
	}
	if hard {
		delete(m.byID, id)
		delete(m.bySlug, record.Slug)
		return nil
	}
	now := m.now()
	record.DeletedAt = &now
	record.UpdatedAt = now
	return nil
}

func (m *memoryPostRepository) AdjustCounters(_ context.Context, id uuid.UUID, likeDelta, commentDelta int) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok || record.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}

	record.LikeCount = clampCounter(record.LikeCount + likeDelta)
	record.CommentCount = clampCounter(record.CommentCount + commentDelta)
	record.UpdatedAt = m.now()
	return clonePost(record), nil
}

// NewMemoryCommentRepository constructs an in-memory comment repository.
func NewMemoryCommentRepository() CommentRepository {
	return &memoryCommentRepository{
		byID:   make(map[uuid.UUID]*Comment),
		byPost: make(map[uuid.UUID][]uuid.UUID),
	}
}

type memoryCommentRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Comment
	byPost map[uuid.UUID][]uuid.UUID
}

func (m *memoryCommentRepository) Create(_ context.Context, comment *Comment) (*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneComment(comment)
	m.byID[cloned.ID] = cloned
	m.byPost[cloned.PostID] = append(m.byPost[cloned.PostID], cloned.ID)
	return cloneComment(cloned), nil
}

func (m *memoryCommentRepository) ListByPost(_ context.Context, postID uuid.UUID) ([]*Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byPost[postID]
	records := make([]*Comment, 0, len(ids))
	for _, id := range ids {
		if record, ok := m.byID[id]; ok && record.DeletedAt == nil {
			records = append(records, cloneComment(record))
		}
	}
	// Newest first, matching the detail panel's display order.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (m *memoryCommentRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "comment", Key: id.String()}
	}
	now := time.Now()
	record.DeletedAt = &now
	return nil
}

// NewMemoryLikeRepository constructs an in-memory like repository.
func NewMemoryLikeRepository() LikeRepository {
	return &memoryLikeRepository{
		byPair: make(map[string]*Like),
	}
}

type memoryLikeRepository struct {
	mu     sync.RWMutex
	byPair map[string]*Like
}

func likePairKey(postID, userID uuid.UUID) string {
	return postID.String() + ":" + userID.String()
}

func (m *memoryLikeRepository) Create(_ context.Context, like *Like) (*Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := likePairKey(like.PostID, like.UserID)
	if _, exists := m.byPair[key]; exists {
		// Matches the primary-key rejection of the bun backend so concurrent
		// first toggles cannot double-increment the counter.
		return nil, ErrLikeExists
	}
	cloned := *like
	m.byPair[key] = &cloned
	copied := cloned
	return &copied, nil
}

func (m *memoryLikeRepository) GetByPostAndUser(_ context.Context, postID, userID uuid.UUID) (*Like, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byPair[likePairKey(postID, userID)]
	if !ok {
		return nil, &NotFoundError{Resource: "like", Key: likePairKey(postID, userID)}
	}
	copied := *record
	return &copied, nil
}

func (m *memoryLikeRepository) DeleteByPostAndUser(_ context.Context, postID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := likePairKey(postID, userID)
	if _, ok := m.byPair[key]; !ok {
		return &NotFoundError{Resource: "like", Key: key}
	}
	delete(m.byPair, key)
	return nil
}

func (m *memoryLikeRepository) CountByPost(_ context.Context, postID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, record := range m.byPair {
		if record.PostID == postID {
			count++
		}
	}
	return count, nil
}

func clampCounter(value int) int {
	if value < 0 {
		return 0
	}
	return value
}

func clonePost(post *Post) *Post {
	if post == nil {
		return nil
	}
	cloned := *post
	if post.ImageURLs != nil {
		cloned.ImageURLs = append([]string(nil), post.ImageURLs...)
	}
	if post.Tags != nil {
		cloned.Tags = append([]string(nil), post.Tags...)
	}
	if post.Metadata != nil {
		cloned.Metadata = make(map[string]any, len(post.Metadata))
		for key, value := range post.Metadata {
			cloned.Metadata[key] = value
		}
	}
	cloned.Comments = nil
	return &cloned
}

func cloneComment(comment *Comment) *Comment {
	if comment == nil {
		return nil
	}
	cloned := *comment
	cloned.Post = nil
	return &cloned
}

// sortPosts orders records by a resolvable record field so list configs can
// sort on nested metadata as well as top-level columns.
func sortPosts(records []*Post, field string, desc bool) {
	if field == "" {
		field = "created_at"
	}
	sort.SliceStable(records, func(i, j int) bool {
		less := lessByField(records[i], records[j], field)
		if desc {
			return lessByField(records[j], records[i], field)
		}
		return less
	})
}

func lessByField(a, b *Post, field string) bool {
	left, _ := template.Resolve(field, a.Record())
	right, _ := template.Resolve(field, b.Record())

	if lt, ok := left.(time.Time); ok {
		if rt, ok := right.(time.Time); ok {
			return lt.Before(rt)
		}
	}
	if ln, ok := numeric(left); ok {
		if rn, ok := numeric(right); ok {
			return ln < rn
		}
	}
	return strings.Compare(template.Stringify(left), template.Stringify(right)) < 0
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
