package scheduler

import "github.com/google/uuid"

const (
	JobTypePostPublish   = "postview.posts.publish"
	JobTypePostUnpublish = "postview.posts.unpublish"
)

func PostPublishJobKey(id uuid.UUID) string {
	return "post:" + id.String() + ":publish"
}

func PostUnpublishJobKey(id uuid.UUID) string {
	return "post:" + id.String() + ":unpublish"
}
