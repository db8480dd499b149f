// Package posts implements the content entity API backing the renderers:
// posts, per-user likes, comments, and the denormalized engagement counters
// the list and detail views display.
package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status gates publication. Only published posts are visible to public lists.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Post is the canonical content record: a news entry, testimonial, program
// announcement, or any other card-rendered item.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID           uuid.UUID      `bun:",pk,type:uuid"                  json:"id"`
	Category     string         `bun:"category,notnull"               json:"category"`
	Status       Status         `bun:"status,notnull,default:'draft'" json:"status"`
	Slug         string         `bun:"slug,notnull,unique"            json:"slug"`
	Title        string         `bun:"title,notnull"                  json:"title"`
	Summary      *string        `bun:"summary"                        json:"summary,omitempty"`
	Content      *string        `bun:"content"                        json:"content,omitempty"`
	ThumbnailURL *string        `bun:"thumbnail_url"                  json:"thumbnail_url,omitempty"`
	YouTubeURL   *string        `bun:"youtube_url"                    json:"youtube_url,omitempty"`
	ImageURLs    []string       `bun:"image_urls,type:jsonb"          json:"image_urls,omitempty"`
	Tags         []string       `bun:"tags,type:jsonb"                json:"tags,omitempty"`
	Metadata     map[string]any `bun:"metadata,type:jsonb"            json:"metadata,omitempty"`
	LikeCount    int            `bun:"like_count,notnull,default:0"   json:"like_count"`
	CommentCount int            `bun:"comment_count,notnull,default:0" json:"comment_count"`
	PublishAt    *time.Time     `bun:"publish_at,nullzero"            json:"publish_at,omitempty"`
	UnpublishAt  *time.Time     `bun:"unpublish_at,nullzero"          json:"unpublish_at,omitempty"`
	PublishedAt  *time.Time     `bun:"published_at,nullzero"          json:"published_at,omitempty"`
	CreatedBy    uuid.UUID      `bun:"created_by,type:uuid"           json:"created_by"`
	UpdatedBy    uuid.UUID      `bun:"updated_by,type:uuid"           json:"updated_by"`
	DeletedAt    *time.Time     `bun:"deleted_at,nullzero"            json:"deleted_at,omitempty"`
	CreatedAt    time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Comments []*Comment `bun:"rel:has-many,join:id=post_id" json:"comments,omitempty"`
}

// Record flattens the post into the untyped shape the templating core
// resolves dotted paths against. Keys follow the persisted column names so
// author configs read naturally ({{title}}, {{metadata.chart_image_url}}).
func (p *Post) Record() map[string]any {
	if p == nil {
		return map[string]any{}
	}

	record := map[string]any{
		"id":            p.ID.String(),
		"category":      p.Category,
		"status":        string(p.Status),
		"slug":          p.Slug,
		"title":         p.Title,
		"like_count":    p.LikeCount,
		"comment_count": p.CommentCount,
		"created_at":    p.CreatedAt,
		"updated_at":    p.UpdatedAt,
	}
	if p.Summary != nil {
		record["summary"] = *p.Summary
	}
	if p.Content != nil {
		record["content"] = *p.Content
	}
	if p.ThumbnailURL != nil {
		record["thumbnail_url"] = *p.ThumbnailURL
	}
	if p.YouTubeURL != nil {
		record["youtube_url"] = *p.YouTubeURL
	}
	if len(p.ImageURLs) > 0 {
		urls := make([]any, len(p.ImageURLs))
		for i, url := range p.ImageURLs {
			urls[i] = url
		}
		record["image_urls"] = urls
	}
	if len(p.Tags) > 0 {
		tags := make([]any, len(p.Tags))
		for i, tag := range p.Tags {
			tags[i] = tag
		}
		record["tags"] = tags
	}
	if p.Metadata != nil {
		metadata := make(map[string]any, len(p.Metadata))
		for key, value := range p.Metadata {
			metadata[key] = value
		}
		record["metadata"] = metadata
	}
	if p.PublishedAt != nil {
		record["published_at"] = *p.PublishedAt
	}
	return record
}

// IsVisible reports whether the post should appear on public surfaces at the
// supplied instant, honoring the publication window when one is set.
func (p *Post) IsVisible(now time.Time) bool {
	if p == nil || p.Status != StatusPublished || p.DeletedAt != nil {
		return false
	}
	if p.PublishAt != nil && now.Before(*p.PublishAt) {
		return false
	}
	if p.UnpublishAt != nil && !now.Before(*p.UnpublishAt) {
		return false
	}
	return true
}

// Comment stores one reader comment attached to a post.
type Comment struct {
	bun.BaseModel `bun:"table:post_comments,alias:pc"`

	ID         uuid.UUID  `bun:",pk,type:uuid"            json:"id"`
	PostID     uuid.UUID  `bun:"post_id,notnull,type:uuid" json:"post_id"`
	AuthorID   uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author_id"`
	AuthorName string     `bun:"author_name,notnull"      json:"author_name"`
	Body       string     `bun:"body,notnull"             json:"body"`
	DeletedAt  *time.Time `bun:"deleted_at,nullzero"      json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`

	Post *Post `bun:"rel:belongs-to,join:post_id=id" json:"post,omitempty"`
}

// Like records a single user's like on a post. At most one row exists per
// post/user pair.
type Like struct {
	bun.BaseModel `bun:"table:post_likes,alias:pl"`

	ID        uuid.UUID `bun:",pk,type:uuid"             json:"id"`
	PostID    uuid.UUID `bun:"post_id,notnull,type:uuid" json:"post_id"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Viewer identifies the authenticated reader interacting with a page.
// Authentication itself happens in the host application; the service only
// needs a stable identity.
type Viewer struct {
	ID   uuid.UUID
	Name string
}

// CreatePostRequest carries the fields accepted when creating a post.
type CreatePostRequest struct {
	Category     string
	Status       Status
	Slug         string
	Title        string
	Summary      *string
	Content      *string
	ThumbnailURL *string
	YouTubeURL   *string
	ImageURLs    []string
	Tags         []string
	Metadata     map[string]any
	PublishAt    *time.Time
	UnpublishAt  *time.Time
	CreatedBy    uuid.UUID
}

// UpdatePostRequest carries mutable post fields. Nil pointers leave the
// stored value untouched.
type UpdatePostRequest struct {
	ID           uuid.UUID
	Category     *string
	Status       *Status
	Title        *string
	Summary      *string
	Content      *string
	ThumbnailURL *string
	YouTubeURL   *string
	ImageURLs    []string
	Tags         []string
	Metadata     map[string]any
	PublishAt    *time.Time
	UnpublishAt  *time.Time
	UpdatedBy    uuid.UUID
}

// DeletePostRequest removes a post. Soft deletion is the default.
type DeletePostRequest struct {
	ID         uuid.UUID
	HardDelete bool
}

// AddCommentRequest appends a reader comment to a post.
type AddCommentRequest struct {
	PostID uuid.UUID
	Viewer Viewer
	Body   string
}

// ListOptions filters and orders post listings. Public callers receive only
// currently visible posts unless IncludeDrafts is set.
type ListOptions struct {
	Category      string
	OrderField    string
	OrderDesc     bool
	Limit         int
	IncludeDrafts bool
}
