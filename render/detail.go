package render

import (
	"fmt"

	"github.com/goliatone/go-postview/media"
	"github.com/goliatone/go-postview/template"
)

// DetailView is the fully resolved detail page. Each section is independently
// gated: a nil pointer or empty slice means the section is skipped, not
// rendered blank.
type DetailView struct {
	Title       string
	Meta        []MetaValue
	Content     *Content
	Video       *Video
	Attachments []Attachment
	Embed       *Embed
	Gallery     []string
	Actions     []Action
	Comments    *CommentPanel
	CTAs        []CTA
}

// Content is the resolved body section. HTML is set when the body went
// through the markdown parser; otherwise Text carries the raw value.
type Content struct {
	Text string
	HTML string
}

// Video is the resolved embedded video section.
type Video struct {
	VideoID  string
	EmbedURL string
	WatchURL string
}

// Attachment is one resolved downloadable entry.
type Attachment struct {
	Label string
	Src   string
}

// Embed is a resolved generic iframe section.
type Embed struct {
	Src    string
	Height int
}

// CommentPanel enables the comment section on the consumer side.
type CommentPanel struct {
	Placeholder string
}

// CTA is one resolved call-to-action. External entries open in a new context.
type CTA struct {
	Label    string
	Href     string
	Target   string
	External bool
}

// Detail resolves every configured section against a single record. Sections
// whose config is absent or whose resolved value is empty are skipped.
func (r *Renderer) Detail(cfg DetailConfig, record map[string]any) (*DetailView, error) {
	if record == nil {
		return nil, ErrNilRecord
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	view := &DetailView{}

	if cfg.Display.Title != nil {
		view.Title = template.Interpolate(cfg.Display.Title.Value, record)
	}
	view.Meta = r.buildMeta(cfg.Display.Meta, record)

	if cfg.Display.Content != nil {
		view.Content = r.buildContent(*cfg.Display.Content, record)
	}
	if cfg.Video != nil {
		view.Video = buildVideo(*cfg.Video, record)
	}
	view.Attachments = buildAttachments(cfg.Display.Attachments, record)
	if cfg.Embed != nil {
		view.Embed = buildEmbed(*cfg.Embed, record)
	}
	if cfg.Display.Gallery != nil {
		view.Gallery = buildGallery(*cfg.Display.Gallery, record)
	}
	view.Actions = r.buildActions(cfg.Display.Actions, record)
	if cfg.Comment != nil && cfg.Comment.Enabled {
		view.Comments = &CommentPanel{Placeholder: cfg.Comment.Placeholder}
	}
	view.CTAs = r.buildCTAs(cfg.CTA, record)

	return view, nil
}

func (r *Renderer) buildContent(cfg ContentConfig, record map[string]any) *Content {
	raw := template.Interpolate(cfg.Value, record)
	if raw == "" {
		return nil
	}
	content := &Content{Text: raw}
	if cfg.Markdown && r.markdown != nil {
		html, err := r.markdown.Parse([]byte(raw))
		if err != nil {
			r.logger.Warn("markdown conversion failed", "error", err)
			return content
		}
		content.HTML = string(html)
	}
	return content
}

func buildVideo(cfg VideoConfig, record map[string]any) *Video {
	urlTemplate := cfg.URL
	if urlTemplate == "" {
		urlTemplate = "{{youtube_url}}"
	}
	url := template.Interpolate(urlTemplate, record)
	if url == "" || url == "undefined" {
		return nil
	}
	id, ok := media.YouTubeVideoID(url)
	if !ok {
		return nil
	}
	return &Video{
		VideoID:  id,
		EmbedURL: media.VideoEmbedURL(id),
		WatchURL: url,
	}
}

// buildAttachments gates each entry by its own condition before resolving the
// source template. Entries resolving empty or to the literal "undefined" are
// dropped.
func buildAttachments(attachments []AttachmentConfig, record map[string]any) []Attachment {
	if len(attachments) == 0 {
		return nil
	}
	out := make([]Attachment, 0, len(attachments))
	for _, att := range attachments {
		if !template.EvaluateCondition(att.If, record) {
			continue
		}
		src := template.Interpolate(att.Src, record)
		if src == "" || src == "undefined" {
			continue
		}
		label := template.Interpolate(att.Label, record)
		out = append(out, Attachment{Label: label, Src: src})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func buildEmbed(cfg EmbedConfig, record map[string]any) *Embed {
	if !template.EvaluateCondition(cfg.If, record) {
		return nil
	}
	src := template.Interpolate(cfg.Src, record)
	if src == "" || src == "undefined" {
		return nil
	}
	return &Embed{Src: src, Height: cfg.Height}
}

func buildGallery(cfg GalleryConfig, record map[string]any) []string {
	field := cfg.Value
	if field == "" {
		field = "image_urls"
	}
	value, ok := template.Resolve(field, record)
	if !ok || value == nil {
		return nil
	}

	var urls []string
	switch typed := value.(type) {
	case []string:
		urls = typed
	case []any:
		for _, entry := range typed {
			if s, ok := entry.(string); ok {
				urls = append(urls, s)
			}
		}
	default:
		return nil
	}

	out := make([]string, 0, len(urls))
	for _, url := range urls {
		if url == "" {
			continue
		}
		out = append(out, url)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (r *Renderer) buildCTAs(ctas []CTAConfig, record map[string]any) []CTA {
	if len(ctas) == 0 {
		return nil
	}
	out := make([]CTA, 0, len(ctas))
	for _, cta := range ctas {
		if !template.EvaluateCondition(cta.If, record) {
			continue
		}
		label := template.Interpolate(cta.Label, record)
		if label == "" {
			continue
		}
		resolved := CTA{Label: label, Target: cta.Target, External: cta.External}
		if cta.External {
			href := template.Interpolate(cta.Href, record)
			if href == "" || href == "undefined" {
				continue
			}
			resolved.Href = href
			if resolved.Target == "" {
				resolved.Target = "_blank"
			}
		} else {
			if r.navigator == nil {
				continue
			}
			key := template.Interpolate(cta.Href, record)
			if key == "" {
				key = recordID(record)
			}
			if key == "" {
				continue
			}
			href, err := r.navigator.DetailURL(key)
			if err != nil {
				r.logger.Warn("cta link resolution failed", "key", key, "error", err)
				continue
			}
			resolved.Href = href
		}
		out = append(out, resolved)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
