// Package media resolves display imagery for content records: the thumbnail
// fallback chain used by card and detail rendering, YouTube video-ID
// extraction, and the ordered quality candidates consumers step through when
// an image fails to load.
package media

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-postview/template"
)

// videoIDPatterns cover the common YouTube URL shapes: the embed path, the
// watch query parameter, the short domain, and the legacy /v/ path.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})`),
}

const thumbnailURLFormat = "https://img.youtube.com/vi/%s/%s.jpg"

// defaultQuality is the quality slug used when synthesizing a thumbnail at
// resolution time. thumbnailQualities lists the runtime alternatives, in the
// order a consumer should try them after a failed image load.
const defaultQuality = "default"

var thumbnailQualities = []string{"mqdefault", "hqdefault", "sddefault"}

// YouTubeVideoID extracts the canonical 11-character video identifier from a
// YouTube URL. The first pattern to match wins.
func YouTubeVideoID(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(url); match != nil {
			return match[1], true
		}
	}
	return "", false
}

// VideoThumbnailURL synthesizes the default-quality thumbnail URL for a video ID.
func VideoThumbnailURL(videoID string) string {
	return fmt.Sprintf(thumbnailURLFormat, videoID, defaultQuality)
}

// VideoEmbedURL synthesizes the embed player URL for a video ID.
func VideoEmbedURL(videoID string) string {
	return "https://www.youtube.com/embed/" + videoID
}

// ResolveThumbnail picks the display image for a record. Precedence, first
// match wins:
//
//  1. record.thumbnail_url
//  2. record.metadata.chart_image_url
//  3. a thumbnail derived from record.youtube_url
//  4. the configured fallback template, interpolated against the record
//
// The fallback is rejected when it resolves empty or to the literal text
// "undefined". When nothing matches the second return is false and the caller
// decides the placeholder treatment.
func ResolveThumbnail(record map[string]any, fallback string) (string, bool) {
	if url := stringField(record, "thumbnail_url"); url != "" {
		return url, true
	}
	if url := stringField(record, "metadata.chart_image_url"); url != "" {
		return url, true
	}
	if videoURL := stringField(record, "youtube_url"); videoURL != "" {
		if id, ok := YouTubeVideoID(videoURL); ok {
			return VideoThumbnailURL(id), true
		}
	}
	if fallback != "" {
		resolved := template.Interpolate(fallback, record)
		if resolved != "" && resolved != "undefined" {
			return resolved, true
		}
	}
	return "", false
}

// FallbackChain steps through alternative image URLs after load failures.
// Resolution picks a single URL up front; swapping in a lower- or
// higher-quality variant is a runtime recovery reacting to a failed fetch, so
// the chain is consumed imperatively: call Current for the active URL and
// Next after each failure until the chain is exhausted, at which point the
// consumer shows its generic placeholder.
type FallbackChain struct {
	candidates []string
	index      int
}

// NewFallbackChain builds a chain starting at url. YouTube thumbnails gain
// the alternative quality variants; any other URL has no alternatives.
func NewFallbackChain(url string) *FallbackChain {
	chain := &FallbackChain{candidates: []string{url}}
	if id, ok := youTubeThumbnailID(url); ok {
		for _, quality := range thumbnailQualities {
			chain.candidates = append(chain.candidates, fmt.Sprintf(thumbnailURLFormat, id, quality))
		}
	}
	return chain
}

// Current returns the active candidate URL.
func (c *FallbackChain) Current() string {
	if c.index >= len(c.candidates) {
		return ""
	}
	return c.candidates[c.index]
}

// Next advances past a failed candidate. It returns the next URL to try, or
// false when the chain is exhausted.
func (c *FallbackChain) Next() (string, bool) {
	if c.index+1 >= len(c.candidates) {
		c.index = len(c.candidates)
		return "", false
	}
	c.index++
	return c.candidates[c.index], true
}

// Candidates returns the full ordered candidate list, primary first.
func (c *FallbackChain) Candidates() []string {
	out := make([]string, len(c.candidates))
	copy(out, c.candidates)
	return out
}

var youTubeThumbnailPattern = regexp.MustCompile(`img\.youtube\.com/vi/([A-Za-z0-9_-]{11})/`)

func youTubeThumbnailID(url string) (string, bool) {
	match := youTubeThumbnailPattern.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}

func stringField(record map[string]any, path string) string {
	value, ok := template.Resolve(path, record)
	if !ok || value == nil {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}
