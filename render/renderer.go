// Package render turns author-supplied configs plus untyped content records
// into fully resolved view structures: one card per record for listings, and
// independently gated sections for detail pages. All field access goes through
// the template package so missing data degrades to omitted blocks, never
// errors.
package render

import (
	"github.com/goliatone/go-postview/internal/logging"
	"github.com/goliatone/go-postview/pkg/interfaces"
)

// Renderer produces list cards and detail views from configs and records.
type Renderer struct {
	navigator interfaces.Navigator
	markdown  interfaces.MarkdownParser
	logger    interfaces.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithNavigator wires the URL builder used for internal link actions and CTAs.
func WithNavigator(nav interfaces.Navigator) Option {
	return func(r *Renderer) {
		if nav != nil {
			r.navigator = nav
		}
	}
}

// WithMarkdown wires the parser used for content-as-markdown sections.
func WithMarkdown(parser interfaces.MarkdownParser) Option {
	return func(r *Renderer) {
		if parser != nil {
			r.markdown = parser
		}
	}
}

// WithLogger wires the logger provider for render diagnostics.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(r *Renderer) {
		r.logger = logging.RenderLogger(provider)
	}
}

// New constructs a Renderer. Without a navigator, internal link actions and
// CTAs are omitted; without a markdown parser, content is passed through as
// plain text.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
