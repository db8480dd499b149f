package posts

import (
	"errors"
	"fmt"
)

var (
	ErrTitleRequired    = errors.New("posts: title is required")
	ErrCategoryRequired = errors.New("posts: category is required")
	ErrSlugRequired     = errors.New("posts: slug is required")
	ErrSlugInvalid      = errors.New("posts: slug contains invalid characters")
	ErrSlugExists       = errors.New("posts: slug already exists")
	ErrStatusInvalid    = errors.New("posts: status is invalid")
	ErrPostIDRequired   = errors.New("posts: post id required")
	ErrViewerRequired   = errors.New("posts: an authenticated viewer is required")
	ErrCommentBodyEmpty = errors.New("posts: comment body is required")
	ErrScheduleInvalid  = errors.New("posts: publish_at must be before unpublish_at")
	ErrLikeExists       = errors.New("posts: like already recorded for this post and user")
	ErrSchedulerMissing = errors.New("posts: scheduler not configured")
)

// NotFoundError reports a missing post, comment, or like.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("posts: %s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
