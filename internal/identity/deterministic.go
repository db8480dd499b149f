package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID derives the deterministic identifier for a post slug.
func PostUUID(slug string) uuid.UUID {
	return UUID("go-postview:post:" + strings.ToLower(strings.TrimSpace(slug)))
}

// CommentUUID derives the deterministic identifier for a comment on a post.
func CommentUUID(postID uuid.UUID, authorID uuid.UUID, createdAt string) uuid.UUID {
	return UUID("go-postview:comment:" + postID.String() + ":" + authorID.String() + ":" + strings.TrimSpace(createdAt))
}

// LikeUUID derives the deterministic identifier for a per-user like record.
func LikeUUID(postID uuid.UUID, userID uuid.UUID) uuid.UUID {
	return UUID("go-postview:like:" + postID.String() + ":" + userID.String())
}
