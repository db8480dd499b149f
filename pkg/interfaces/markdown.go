package interfaces

// MarkdownParser renders markdown source into HTML.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions tunes a single markdown conversion.
type ParseOptions struct {
	// Extensions names optional goldmark extensions (gfm, table, strikethrough,
	// linkify, tasklist). Unknown names are ignored.
	Extensions []string
	// HardWraps renders newlines as <br> elements.
	HardWraps bool
	// SafeMode suppresses raw HTML passthrough.
	SafeMode bool
}
