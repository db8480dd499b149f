package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-postview/internal/logging"
	"github.com/goliatone/go-postview/pkg/interfaces"
	"github.com/goliatone/go-postview/posts"
)

// Importer sources posts from markdown files with YAML frontmatter. Files are
// keyed by slug: an existing post with the same slug is updated, otherwise a
// new one is created.
type Importer struct {
	svc             posts.Service
	logger          interfaces.Logger
	defaultCategory string
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithImportLogger wires the logger provider for import diagnostics.
func WithImportLogger(provider interfaces.LoggerProvider) ImporterOption {
	return func(i *Importer) {
		i.logger = logging.MarkdownLogger(provider)
	}
}

// WithDefaultCategory sets the category used when frontmatter omits one.
func WithDefaultCategory(category string) ImporterOption {
	return func(i *Importer) {
		if category != "" {
			i.defaultCategory = category
		}
	}
}

// NewImporter constructs an Importer over the post service.
func NewImporter(svc posts.Service, opts ...ImporterOption) *Importer {
	imp := &Importer{
		svc:             svc,
		logger:          logging.NoOp(),
		defaultCategory: "news",
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// ImportFile imports a single markdown file.
func (i *Importer) ImportFile(ctx context.Context, path string) (*posts.Post, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("markdown: read %s: %w", path, err)
	}
	return i.ImportBytes(ctx, filepath.Base(path), source)
}

// ImportDir imports every .md file under dir, recursively, failing fast on
// the first error.
func (i *Importer) ImportDir(ctx context.Context, dir string) ([]*posts.Post, error) {
	var imported []*posts.Post
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		post, err := i.ImportFile(ctx, path)
		if err != nil {
			return err
		}
		imported = append(imported, post)
		return nil
	})
	if err != nil {
		return imported, err
	}
	i.logger.Info("markdown import complete", "dir", dir, "count", len(imported))
	return imported, nil
}

// ImportBytes imports one markdown document. The name supplies the slug when
// frontmatter does not.
func (i *Importer) ImportBytes(ctx context.Context, name string, source []byte) (*posts.Post, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	slugValue := meta.Slug
	if slugValue == "" {
		slugValue = strings.TrimSuffix(name, filepath.Ext(name))
	}

	title := meta.Title
	if title == "" {
		return nil, fmt.Errorf("markdown: %s: frontmatter title required", name)
	}

	category := meta.Category
	if category == "" {
		category = i.defaultCategory
	}

	status := posts.Status(meta.Status)
	switch status {
	case posts.StatusDraft, posts.StatusPublished, posts.StatusArchived:
	case "":
		if meta.Draft {
			status = posts.StatusDraft
		} else {
			status = posts.StatusPublished
		}
	default:
		return nil, fmt.Errorf("markdown: %s: unknown status %q", name, meta.Status)
	}

	content := strings.TrimSpace(string(body))
	req := posts.CreatePostRequest{
		Category: category,
		Status:   status,
		Slug:     slugValue,
		Title:    title,
		Tags:     meta.Tags,
	}
	if content != "" {
		req.Content = &content
	}
	if meta.Summary != "" {
		summary := meta.Summary
		req.Summary = &summary
	}
	if meta.ThumbnailURL != "" {
		thumb := meta.ThumbnailURL
		req.ThumbnailURL = &thumb
	}
	if meta.YouTubeURL != "" {
		video := meta.YouTubeURL
		req.YouTubeURL = &video
	}
	if len(meta.ImageURLs) > 0 {
		req.ImageURLs = meta.ImageURLs
	}
	if len(meta.Custom) > 0 {
		req.Metadata = meta.Custom
	}
	if !meta.Date.IsZero() {
		date := meta.Date
		req.PublishAt = &date
	}

	existing, err := i.svc.GetBySlug(ctx, slugValue)
	if err != nil {
		if !posts.IsNotFound(err) {
			return nil, err
		}
		created, err := i.svc.Create(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("markdown: import %s: %w", name, err)
		}
		i.logger.Debug("post created from markdown", "slug", created.Slug)
		return created, nil
	}

	update := posts.UpdatePostRequest{
		ID:           existing.ID,
		Category:     &category,
		Status:       &status,
		Title:        &title,
		Summary:      req.Summary,
		Content:      req.Content,
		ThumbnailURL: req.ThumbnailURL,
		YouTubeURL:   req.YouTubeURL,
		ImageURLs:    req.ImageURLs,
		Tags:         req.Tags,
		Metadata:     req.Metadata,
		PublishAt:    req.PublishAt,
	}
	updated, err := i.svc.Update(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("markdown: reimport %s: %w", name, err)
	}
	i.logger.Debug("post updated from markdown", "slug", updated.Slug)
	return updated, nil
}
