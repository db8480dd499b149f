package render

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrConfigInvalid = errors.New("render: config invalid")
	ErrNilRecord     = errors.New("render: nil record")
)

// MetaType discriminates the meta row item union.
type MetaType string

const (
	MetaText  MetaType = "text"
	MetaDate  MetaType = "date"
	MetaBadge MetaType = "badge"
)

// ActionType discriminates card and detail actions.
type ActionType string

const (
	ActionLike         ActionType = "like"
	ActionComment      ActionType = "comment"
	ActionLink         ActionType = "link"
	ActionExternalLink ActionType = "externalLink"
)

// ListConfig drives the list renderer: which records to show, in what order,
// and how each card is composed.
type ListConfig struct {
	Source  SourceConfig   `json:"source"`
	Order   *OrderConfig   `json:"order,omitempty"`
	Limit   int            `json:"limit,omitempty"`
	Display DisplayConfig  `json:"display"`
	Style   map[string]any `json:"style,omitempty"`
}

// SourceConfig names the record collection the list pulls from.
type SourceConfig struct {
	Category string `json:"category"`
}

// OrderConfig sorts the record collection before cards are produced.
type OrderConfig struct {
	Field     string `json:"field"`
	Direction string `json:"direction,omitempty"`
}

// DisplayConfig gates each optional card block independently: a nil block is
// simply not rendered.
type DisplayConfig struct {
	Thumbnail *ThumbnailConfig `json:"thumbnail,omitempty"`
	Meta      []MetaItemConfig `json:"meta,omitempty"`
	Title     *TitleConfig     `json:"title,omitempty"`
	Excerpt   *ExcerptConfig   `json:"excerpt,omitempty"`
	Actions   []ActionConfig   `json:"actions,omitempty"`
}

// ThumbnailConfig tunes thumbnail resolution; Fallback is a template run
// against the record when no explicit or derived image exists.
type ThumbnailConfig struct {
	Fallback string `json:"fallback,omitempty"`
}

// TitleConfig holds the title template, e.g. "{{title}}".
type TitleConfig struct {
	Value string `json:"value"`
}

// ExcerptConfig selects and truncates the summary text.
type ExcerptConfig struct {
	Value  string `json:"value"`
	Length int    `json:"length,omitempty"`
}

// MetaItemConfig is one entry of the meta row tagged union.
type MetaItemConfig struct {
	Type   MetaType `json:"type"`
	Value  string   `json:"value"`
	Icon   string   `json:"icon,omitempty"`
	Format string   `json:"format,omitempty"`
	If     string   `json:"if,omitempty"`
}

// ActionConfig is one entry of the action row.
type ActionConfig struct {
	Type  ActionType `json:"type"`
	Label string     `json:"label,omitempty"`
	URL   string     `json:"url,omitempty"`
	If    string     `json:"if,omitempty"`
}

// DetailConfig drives the detail renderer's independently gated sections.
type DetailConfig struct {
	Display DetailDisplayConfig `json:"display"`
	Video   *VideoConfig        `json:"video,omitempty"`
	Embed   *EmbedConfig        `json:"embed,omitempty"`
	Comment *CommentConfig      `json:"comment,omitempty"`
	CTA     []CTAConfig         `json:"cta,omitempty"`
	Style   map[string]any      `json:"style,omitempty"`
}

// DetailDisplayConfig gates the primary content sections.
type DetailDisplayConfig struct {
	Title       *TitleConfig       `json:"title,omitempty"`
	Meta        []MetaItemConfig   `json:"meta,omitempty"`
	Content     *ContentConfig     `json:"content,omitempty"`
	Attachments []AttachmentConfig `json:"attachments,omitempty"`
	Gallery     *GalleryConfig     `json:"gallery,omitempty"`
	Actions     []ActionConfig     `json:"actions,omitempty"`
}

// ContentConfig selects the body field; Markdown controls HTML conversion.
type ContentConfig struct {
	Value    string `json:"value"`
	Markdown bool   `json:"markdown,omitempty"`
}

// AttachmentConfig is one downloadable entry, gated by its own condition.
type AttachmentConfig struct {
	If    string `json:"if,omitempty"`
	Label string `json:"label,omitempty"`
	Src   string `json:"src"`
}

// GalleryConfig names the record field holding an ordered image URL list.
type GalleryConfig struct {
	Value string `json:"value,omitempty"`
}

// VideoConfig enables the embedded video section; URL is a template that
// should resolve to a watchable video link.
type VideoConfig struct {
	URL string `json:"url,omitempty"`
}

// EmbedConfig enables a generic iframe section.
type EmbedConfig struct {
	If     string `json:"if,omitempty"`
	Src    string `json:"src"`
	Height int    `json:"height,omitempty"`
}

// CommentConfig enables the comment panel.
type CommentConfig struct {
	Enabled     bool   `json:"enabled"`
	Placeholder string `json:"placeholder,omitempty"`
}

// CTAConfig is one call-to-action entry; external entries open in a new
// context, internal entries resolve through the Navigator.
type CTAConfig struct {
	If       string `json:"if,omitempty"`
	Label    string `json:"label"`
	Href     string `json:"href,omitempty"`
	Target   string `json:"target,omitempty"`
	External bool   `json:"external,omitempty"`
}

func (c ListConfig) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Limit, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.Order != nil {
		if err := c.Order.Validate(); err != nil {
			return err
		}
	}
	return c.Display.validate()
}

func (c OrderConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Field, validation.Required),
		validation.Field(&c.Direction, validation.In("asc", "desc")),
	)
}

func (c DisplayConfig) validate() error {
	for _, item := range c.Meta {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	for _, action := range c.Actions {
		if err := action.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c MetaItemConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Type, validation.Required, validation.In(MetaText, MetaDate, MetaBadge)),
		validation.Field(&c.Value, validation.Required),
	)
}

func (c ActionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Type, validation.Required, validation.In(ActionLike, ActionComment, ActionLink, ActionExternalLink)),
	)
}

func (c DetailConfig) Validate() error {
	for _, item := range c.Display.Meta {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	for _, action := range c.Display.Actions {
		if err := action.Validate(); err != nil {
			return err
		}
	}
	for _, att := range c.Display.Attachments {
		if err := validation.ValidateStruct(&att,
			validation.Field(&att.Src, validation.Required),
		); err != nil {
			return err
		}
	}
	for _, cta := range c.CTA {
		if err := validation.ValidateStruct(&cta,
			validation.Field(&cta.Label, validation.Required),
		); err != nil {
			return err
		}
	}
	return nil
}
