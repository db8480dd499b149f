package posts

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewPostModelRepository creates the generic repository for posts.
func NewPostModelRepository(db *bun.DB) repository.Repository[*Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Post]{
		NewRecord:          func() *Post { return &Post{} },
		GetID:              func(post *Post) uuid.UUID { return post.ID },
		SetID:              func(post *Post, id uuid.UUID) { post.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(post *Post) string { return post.Slug },
	})
}

// NewCommentModelRepository creates the generic repository for comments.
func NewCommentModelRepository(db *bun.DB) repository.Repository[*Comment] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Comment]{
		NewRecord:          func() *Comment { return &Comment{} },
		GetID:              func(comment *Comment) uuid.UUID { return comment.ID },
		SetID:              func(comment *Comment, id uuid.UUID) { comment.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(comment *Comment) string { return comment.ID.String() },
	})
}

// NewLikeModelRepository creates the generic repository for likes.
func NewLikeModelRepository(db *bun.DB) repository.Repository[*Like] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Like]{
		NewRecord:          func() *Like { return &Like{} },
		GetID:              func(like *Like) uuid.UUID { return like.ID },
		SetID:              func(like *Like, id uuid.UUID) { like.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(like *Like) string { return like.ID.String() },
	})
}
