package posts

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	slug "github.com/goliatone/go-slug"
	"github.com/goliatone/go-postview/internal/identity"
	"github.com/goliatone/go-postview/internal/logging"
	"github.com/goliatone/go-postview/internal/scheduler"
	"github.com/goliatone/go-postview/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes the post management and engagement use cases consumed by
// the renderers and the viewer session.
type Service interface {
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, opts ListOptions) ([]*Post, error)
	Update(ctx context.Context, req UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, req DeletePostRequest) error

	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, *Post, error)
	HasLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	AddComment(ctx context.Context, req AddCommentRequest) (*Comment, *Post, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error)

	Schedule(ctx context.Context, postID uuid.UUID, publishAt, unpublishAt *time.Time) (*Post, error)
	ProcessDue(ctx context.Context, until time.Time) (int, error)
}

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures post service behaviour.
type ServiceOption func(*service)

// WithClock overrides the time source used by the service.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger wires the logger provider used for structured service logs.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.PostsLogger(provider)
	}
}

// WithScheduler wires the scheduler used for publication windows.
func WithScheduler(sched interfaces.Scheduler) ServiceOption {
	return func(s *service) {
		if sched != nil {
			s.scheduler = sched
		}
	}
}

type service struct {
	posts     PostRepository
	comments  CommentRepository
	likes     LikeRepository
	scheduler interfaces.Scheduler
	logger    interfaces.Logger
	now       func() time.Time
	id        IDGenerator
}

// NewService constructs the post service over the supplied repositories.
func NewService(postsRepo PostRepository, commentsRepo CommentRepository, likesRepo LikeRepository, opts ...ServiceOption) Service {
	svc := &service{
		posts:    postsRepo,
		comments: commentsRepo,
		likes:    likesRepo,
		logger:   logging.NoOp(),
		now:      time.Now,
		id:       uuid.New,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error(ErrTitleRequired.Error())),
		validation.Field(&r.Category, validation.Required.Error(ErrCategoryRequired.Error())),
		validation.Field(&r.Status, validation.In(StatusDraft, StatusPublished, StatusArchived).Error(ErrStatusInvalid.Error())),
	)
}

func (s *service) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.PublishAt != nil && req.UnpublishAt != nil && !req.PublishAt.Before(*req.UnpublishAt) {
		return nil, ErrScheduleInvalid
	}

	postSlug := strings.TrimSpace(req.Slug)
	if postSlug == "" {
		postSlug = req.Title
	}
	normalized, err := slug.Normalize(postSlug)
	if err != nil || normalized == "" {
		return nil, ErrSlugInvalid
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}

	now := s.now()
	post := &Post{
		ID:           identity.PostUUID(normalized),
		Category:     strings.TrimSpace(req.Category),
		Status:       status,
		Slug:         normalized,
		Title:        strings.TrimSpace(req.Title),
		Summary:      req.Summary,
		Content:      req.Content,
		ThumbnailURL: req.ThumbnailURL,
		YouTubeURL:   req.YouTubeURL,
		ImageURLs:    req.ImageURLs,
		Tags:         req.Tags,
		Metadata:     req.Metadata,
		PublishAt:    req.PublishAt,
		UnpublishAt:  req.UnpublishAt,
		CreatedBy:    req.CreatedBy,
		UpdatedBy:    req.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == StatusPublished {
		published := now
		post.PublishedAt = &published
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	s.logger.Info("post created", "post_id", created.ID.String(), "slug", created.Slug)

	if err := s.enqueueWindow(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	if id == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	return s.posts.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, postSlug string) (*Post, error) {
	postSlug = strings.TrimSpace(postSlug)
	if postSlug == "" {
		return nil, ErrSlugRequired
	}
	return s.posts.GetBySlug(ctx, postSlug)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Post, error) {
	return s.posts.List(ctx, opts)
}

func (s *service) Update(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	post, err := s.posts.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		post.Category = strings.TrimSpace(*req.Category)
	}
	if req.Status != nil {
		switch *req.Status {
		case StatusDraft, StatusPublished, StatusArchived:
		default:
			return nil, ErrStatusInvalid
		}
		if *req.Status == StatusPublished && post.Status != StatusPublished {
			published := s.now()
			post.PublishedAt = &published
		}
		post.Status = *req.Status
	}
	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Summary != nil {
		post.Summary = req.Summary
	}
	if req.Content != nil {
		post.Content = req.Content
	}
	if req.ThumbnailURL != nil {
		post.ThumbnailURL = req.ThumbnailURL
	}
	if req.YouTubeURL != nil {
		post.YouTubeURL = req.YouTubeURL
	}
	if req.ImageURLs != nil {
		post.ImageURLs = req.ImageURLs
	}
	if req.Tags != nil {
		post.Tags = req.Tags
	}
	if req.Metadata != nil {
		post.Metadata = req.Metadata
	}
	if req.PublishAt != nil {
		post.PublishAt = req.PublishAt
	}
	if req.UnpublishAt != nil {
		post.UnpublishAt = req.UnpublishAt
	}
	if post.PublishAt != nil && post.UnpublishAt != nil && !post.PublishAt.Before(*post.UnpublishAt) {
		return nil, ErrScheduleInvalid
	}
	post.UpdatedBy = req.UpdatedBy
	post.UpdatedAt = s.now()

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		return nil, err
	}
	if err := s.enqueueWindow(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, req DeletePostRequest) error {
	if req.ID == uuid.Nil {
		return ErrPostIDRequired
	}
	if err := s.posts.Delete(ctx, req.ID, req.HardDelete); err != nil {
		return err
	}
	if s.scheduler != nil {
		// Drop any pending publication jobs; a missing job is not an error.
		_ = s.scheduler.CancelByKey(ctx, scheduler.PostPublishJobKey(req.ID))
		_ = s.scheduler.CancelByKey(ctx, scheduler.PostUnpublishJobKey(req.ID))
	}
	return nil
}

// ToggleLike creates or removes the viewer's like record and adjusts the
// denormalized counter atomically. It returns the resulting like state and
// the updated post.
func (s *service) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, *Post, error) {
	if postID == uuid.Nil {
		return false, nil, ErrPostIDRequired
	}
	if userID == uuid.Nil {
		return false, nil, ErrViewerRequired
	}

	_, err := s.likes.GetByPostAndUser(ctx, postID, userID)
	switch {
	case err == nil:
		if err := s.likes.DeleteByPostAndUser(ctx, postID, userID); err != nil {
			return false, nil, err
		}
		post, err := s.posts.AdjustCounters(ctx, postID, -1, 0)
		if err != nil {
			return false, nil, err
		}
		return false, post, nil
	case IsNotFound(err):
		now := s.now()
		like := &Like{
			ID:        identity.LikeUUID(postID, userID),
			PostID:    postID,
			UserID:    userID,
			CreatedAt: now,
		}
		if _, err := s.likes.Create(ctx, like); err != nil {
			return false, nil, err
		}
		post, err := s.posts.AdjustCounters(ctx, postID, 1, 0)
		if err != nil {
			return false, nil, err
		}
		return true, post, nil
	default:
		return false, nil, err
	}
}

func (s *service) HasLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	if postID == uuid.Nil || userID == uuid.Nil {
		return false, nil
	}
	_, err := s.likes.GetByPostAndUser(ctx, postID, userID)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (r AddCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required.Error(ErrCommentBodyEmpty.Error())),
	)
}

func (s *service) AddComment(ctx context.Context, req AddCommentRequest) (*Comment, *Post, error) {
	if req.PostID == uuid.Nil {
		return nil, nil, ErrPostIDRequired
	}
	if req.Viewer.ID == uuid.Nil {
		return nil, nil, ErrViewerRequired
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, nil, ErrCommentBodyEmpty
	}

	now := s.now()
	comment := &Comment{
		ID:         identity.CommentUUID(req.PostID, req.Viewer.ID, now.Format(time.RFC3339Nano)),
		PostID:     req.PostID,
		AuthorID:   req.Viewer.ID,
		AuthorName: req.Viewer.Name,
		Body:       strings.TrimSpace(req.Body),
		CreatedAt:  now,
	}
	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, nil, err
	}
	post, err := s.posts.AdjustCounters(ctx, req.PostID, 0, 1)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("comment added", "post_id", req.PostID.String(), "comment_id", created.ID.String())
	return created, post, nil
}

func (s *service) ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error) {
	if postID == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	return s.comments.ListByPost(ctx, postID)
}

// Schedule sets the publication window on a post and enqueues the matching
// publish/unpublish jobs.
func (s *service) Schedule(ctx context.Context, postID uuid.UUID, publishAt, unpublishAt *time.Time) (*Post, error) {
	if s.scheduler == nil {
		return nil, ErrSchedulerMissing
	}
	return s.Update(ctx, UpdatePostRequest{ID: postID, PublishAt: publishAt, UnpublishAt: unpublishAt})
}

// ProcessDue applies pending publication jobs whose run time has passed. It
// returns the number of jobs processed.
func (s *service) ProcessDue(ctx context.Context, until time.Time) (int, error) {
	if s.scheduler == nil {
		return 0, ErrSchedulerMissing
	}
	due, err := s.scheduler.ListDue(ctx, until, 0)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, job := range due {
		postID, err := jobPostID(job)
		if err != nil {
			_ = s.scheduler.MarkFailed(ctx, job.ID, err)
			continue
		}
		var status Status
		switch job.Type {
		case scheduler.JobTypePostPublish:
			status = StatusPublished
		case scheduler.JobTypePostUnpublish:
			status = StatusArchived
		default:
			continue
		}
		if _, err := s.applyStatus(ctx, postID, status); err != nil {
			s.logger.Warn("publication job failed", "job_id", job.ID, "post_id", postID.String(), "error", err)
			_ = s.scheduler.MarkFailed(ctx, job.ID, err)
			continue
		}
		if err := s.scheduler.MarkDone(ctx, job.ID); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

// applyStatus flips publication state directly against the repository so job
// processing does not re-enter scheduling.
func (s *service) applyStatus(ctx context.Context, postID uuid.UUID, status Status) (*Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if status == StatusPublished && post.Status != StatusPublished {
		published := s.now()
		post.PublishedAt = &published
	}
	post.Status = status
	post.UpdatedAt = s.now()
	return s.posts.Update(ctx, post)
}

func (s *service) enqueueWindow(ctx context.Context, post *Post) error {
	if s.scheduler == nil {
		return nil
	}
	if post.PublishAt != nil && post.PublishAt.After(s.now()) {
		spec := interfaces.JobSpec{
			Key:     scheduler.PostPublishJobKey(post.ID),
			Type:    scheduler.JobTypePostPublish,
			RunAt:   *post.PublishAt,
			Payload: map[string]any{"post_id": post.ID.String()},
		}
		if _, err := s.scheduler.Enqueue(ctx, spec); err != nil {
			return fmt.Errorf("posts: enqueue publish job: %w", err)
		}
	}
	if post.UnpublishAt != nil && post.UnpublishAt.After(s.now()) {
		spec := interfaces.JobSpec{
			Key:     scheduler.PostUnpublishJobKey(post.ID),
			Type:    scheduler.JobTypePostUnpublish,
			RunAt:   *post.UnpublishAt,
			Payload: map[string]any{"post_id": post.ID.String()},
		}
		if _, err := s.scheduler.Enqueue(ctx, spec); err != nil {
			return fmt.Errorf("posts: enqueue unpublish job: %w", err)
		}
	}
	return nil
}

func jobPostID(job *interfaces.Job) (uuid.UUID, error) {
	raw, ok := job.Payload["post_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("posts: job %s missing post_id payload", job.ID)
	}
	return uuid.Parse(raw)
}
