package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the structured metadata extracted from a post source file.
// Custom retains any key the envelope does not model, ending up in the
// post's metadata record.
type FrontMatter struct {
	Title        string
	Slug         string
	Category     string
	Summary      string
	Status       string
	Tags         []string
	ThumbnailURL string
	YouTubeURL   string
	ImageURLs    []string
	Date         time.Time
	Draft        bool
	Custom       map[string]any
}

type frontMatterEnvelope struct {
	Title        string         `yaml:"title"`
	Slug         string         `yaml:"slug"`
	Category     string         `yaml:"category"`
	Summary      string         `yaml:"summary"`
	Status       string         `yaml:"status"`
	Tags         []string       `yaml:"tags"`
	ThumbnailURL string         `yaml:"thumbnail_url"`
	YouTubeURL   string         `yaml:"youtube_url"`
	ImageURLs    []string       `yaml:"image_urls"`
	Date         time.Time      `yaml:"date"`
	Draft        bool           `yaml:"draft"`
	Custom       map[string]any `yaml:",inline"`
}

// ParseFrontMatter extracts metadata and the markdown body from source bytes.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return FrontMatter{
		Title:        meta.Title,
		Slug:         meta.Slug,
		Category:     meta.Category,
		Summary:      meta.Summary,
		Status:       meta.Status,
		Tags:         append([]string(nil), meta.Tags...),
		ThumbnailURL: meta.ThumbnailURL,
		YouTubeURL:   meta.YouTubeURL,
		ImageURLs:    append([]string(nil), meta.ImageURLs...),
		Date:         meta.Date,
		Draft:        meta.Draft,
		Custom:       cloneMap(meta.Custom),
	}, body, nil
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
