// Package viewer holds the detail page session: one post, the current
// viewer's like state, and the comment list, loaded concurrently and mutated
// through guarded optimistic actions.
package viewer

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-postview/internal/logging"
	"github.com/goliatone/go-postview/pkg/interfaces"
	"github.com/goliatone/go-postview/posts"
	"github.com/google/uuid"
)

var (
	ErrNotReady        = errors.New("viewer: session not ready")
	ErrToggleInFlight  = errors.New("viewer: like toggle already in flight")
	ErrCommentInFlight = errors.New("viewer: comment submission already in flight")
	ErrViewerRequired  = errors.New("viewer: authenticated viewer required")
)

// State is the session lifecycle state.
type State string

const (
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateNotFound State = "not_found"
	StateError    State = "error"
)

// Session is one viewer's view of one post. All methods are safe for
// concurrent use; mutating actions are additionally guarded by per-action
// in-flight flags so duplicate submissions are rejected while one is pending.
type Session struct {
	svc    posts.Service
	postID uuid.UUID
	viewer posts.Viewer
	logger interfaces.Logger

	mu              sync.Mutex
	state           State
	loadErr         error
	post            *posts.Post
	liked           bool
	likeCount       int
	comments        []*posts.Comment
	likeInFlight    bool
	commentInFlight bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithViewer attaches the authenticated viewer. Without one the session is
// read-only: likes and comments are rejected.
func WithViewer(v posts.Viewer) SessionOption {
	return func(s *Session) {
		s.viewer = v
	}
}

// WithLogger wires the logger provider for session diagnostics.
func WithLogger(provider interfaces.LoggerProvider) SessionOption {
	return func(s *Session) {
		s.logger = logging.ViewerLogger(provider)
	}
}

// NewSession constructs a session for one post. Call Load before reading
// state.
func NewSession(svc posts.Service, postID uuid.UUID, opts ...SessionOption) *Session {
	s := &Session{
		svc:    svc,
		postID: postID,
		logger: logging.NoOp(),
		state:  StateLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the post, the viewer's like state, and the comment list
// concurrently, then settles the session into Ready, NotFound, or Error.
// There are no automatic retries; a failed load keeps the cause for Err.
func (s *Session) Load(ctx context.Context) State {
	s.mu.Lock()
	s.state = StateLoading
	s.loadErr = nil
	s.mu.Unlock()

	type postResult struct {
		post *posts.Post
		err  error
	}
	type likedResult struct {
		liked bool
		err   error
	}
	type commentsResult struct {
		comments []*posts.Comment
		err      error
	}

	postCh := make(chan postResult, 1)
	likedCh := make(chan likedResult, 1)
	commentsCh := make(chan commentsResult, 1)

	go func() {
		post, err := s.svc.Get(ctx, s.postID)
		postCh <- postResult{post: post, err: err}
	}()
	go func() {
		if s.viewer.ID == uuid.Nil {
			likedCh <- likedResult{}
			return
		}
		liked, err := s.svc.HasLiked(ctx, s.postID, s.viewer.ID)
		likedCh <- likedResult{liked: liked, err: err}
	}()
	go func() {
		comments, err := s.svc.ListComments(ctx, s.postID)
		commentsCh <- commentsResult{comments: comments, err: err}
	}()

	pr := <-postCh
	lr := <-likedCh
	cr := <-commentsCh

	s.mu.Lock()
	defer s.mu.Unlock()

	if pr.err != nil {
		if posts.IsNotFound(pr.err) {
			s.state = StateNotFound
			return s.state
		}
		s.state = StateError
		s.loadErr = pr.err
		return s.state
	}
	if lr.err != nil {
		s.state = StateError
		s.loadErr = lr.err
		return s.state
	}
	if cr.err != nil {
		s.state = StateError
		s.loadErr = cr.err
		return s.state
	}

	s.post = pr.post
	s.liked = lr.liked
	s.likeCount = pr.post.LikeCount
	s.comments = cr.comments
	s.state = StateReady
	return s.state
}

// ToggleLike flips the viewer's like optimistically and persists the change.
// Duplicate calls while one is pending return ErrToggleInFlight. On failure
// the optimistic state is rolled back and the guard cleared.
func (s *Session) ToggleLike(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return false, ErrNotReady
	}
	if s.viewer.ID == uuid.Nil {
		s.mu.Unlock()
		return false, ErrViewerRequired
	}
	if s.likeInFlight {
		s.mu.Unlock()
		return s.liked, ErrToggleInFlight
	}
	s.likeInFlight = true

	prevLiked := s.liked
	prevCount := s.likeCount
	s.liked = !prevLiked
	if s.liked {
		s.likeCount = prevCount + 1
	} else {
		s.likeCount = clampZero(prevCount - 1)
	}
	s.mu.Unlock()

	liked, post, err := s.svc.ToggleLike(ctx, s.postID, s.viewer.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.likeInFlight = false
	if err != nil {
		s.liked = prevLiked
		s.likeCount = prevCount
		s.logger.Warn("like toggle failed", "post_id", s.postID.String(), "error", err)
		return s.liked, err
	}
	s.liked = liked
	s.likeCount = post.LikeCount
	s.post = post
	return s.liked, nil
}

// SubmitComment prepends the comment optimistically, persists it, and swaps
// in the stored record. On failure the optimistic entry is removed and the
// previous count restored.
func (s *Session) SubmitComment(ctx context.Context, body string) (*posts.Comment, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	if s.viewer.ID == uuid.Nil {
		s.mu.Unlock()
		return nil, ErrViewerRequired
	}
	if s.commentInFlight {
		s.mu.Unlock()
		return nil, ErrCommentInFlight
	}
	s.commentInFlight = true

	pending := &posts.Comment{
		PostID:     s.postID,
		AuthorID:   s.viewer.ID,
		AuthorName: s.viewer.Name,
		Body:       body,
	}
	s.comments = append([]*posts.Comment{pending}, s.comments...)
	s.mu.Unlock()

	created, post, err := s.svc.AddComment(ctx, posts.AddCommentRequest{
		PostID: s.postID,
		Viewer: s.viewer,
		Body:   body,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.commentInFlight = false
	if err != nil {
		s.comments = removeComment(s.comments, pending)
		s.logger.Warn("comment submission failed", "post_id", s.postID.String(), "error", err)
		return nil, err
	}
	s.comments = replaceComment(s.comments, pending, created)
	s.post = post
	return created, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the retained load failure cause, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Post returns the loaded post, or nil before a successful load.
func (s *Session) Post() *posts.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.post
}

// Liked reports whether the viewer currently likes the post, including any
// optimistic in-flight state.
func (s *Session) Liked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liked
}

// LikeCount returns the displayed like counter, never negative.
func (s *Session) LikeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likeCount
}

// Comments returns the current comment list, newest first, including any
// optimistic entry.
func (s *Session) Comments() []*posts.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*posts.Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func removeComment(comments []*posts.Comment, target *posts.Comment) []*posts.Comment {
	out := comments[:0]
	for _, c := range comments {
		if c != target {
			out = append(out, c)
		}
	}
	return out
}

func replaceComment(comments []*posts.Comment, target, replacement *posts.Comment) []*posts.Comment {
	for i, c := range comments {
		if c == target {
			comments[i] = replacement
			return comments
		}
	}
	return append([]*posts.Comment{replacement}, comments...)
}
