package postview

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-postview/seo"
	urlkit "github.com/goliatone/go-urlkit"
)

var (
	ErrStorageDriverUnknown = errors.New("postview: unknown storage driver")
	ErrStorageDSNRequired   = errors.New("postview: storage dsn required")
	ErrStorageDBRequired    = errors.New("postview: postgres storage requires WithDB")
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config assembles the module: storage selection, routing, markdown defaults,
// autosave timing, and the site SEO entries.
type Config struct {
	Storage    StorageConfig
	Navigation NavigationConfig
	Markdown   MarkdownConfig
	Autosave   AutosaveConfig
	SEO        SEOConfig
	Logging    LoggingConfig
}

// StorageConfig selects the post store. The memory driver needs no DSN; the
// sqlite driver opens the DSN itself; the postgres driver expects a
// dialect-configured *bun.DB via WithDB.
type StorageConfig struct {
	Driver   string
	DSN      string
	CacheTTL time.Duration
}

// NavigationConfig wires the go-urlkit route table used for internal links.
// A nil Routes config disables internal link actions and CTAs.
type NavigationConfig struct {
	Routes      *urlkit.Config
	Group       string
	DetailRoute string
	ListRoute   string
	KeyParam    string
	ListParam   string
}

// MarkdownConfig sets the default markdown conversion behaviour.
type MarkdownConfig struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// AutosaveConfig tunes the draft autosave debounce window.
type AutosaveConfig struct {
	Delay time.Duration
}

// LoggingConfig builds a go-logger backed provider when the host does not
// inject one via WithLoggerProvider. Leave Enabled false for silent
// operation.
type LoggingConfig struct {
	Enabled   bool
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// SEOConfig seeds the page tag registry: the site defaults plus per-page
// entries keyed by page name.
type SEOConfig struct {
	DefaultTitle string
	DefaultMeta  []seo.Tag
	Pages        map[string]seo.PageTags
}

// DefaultConfig returns a memory-backed configuration suitable for tests and
// embedded use.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver: DriverMemory,
		},
		Autosave: AutosaveConfig{
			Delay: 2 * time.Second,
		},
	}
}

// Validate checks the configuration before the module is assembled.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.Storage,
		validation.Field(&c.Storage.Driver,
			validation.Required,
			validation.In(DriverMemory, DriverSQLite, DriverPostgres).Error(ErrStorageDriverUnknown.Error()),
		),
		validation.Field(&c.Storage.CacheTTL, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	if c.Storage.Driver == DriverSQLite && c.Storage.DSN == "" {
		return ErrStorageDSNRequired
	}
	return validation.ValidateStruct(&c.Autosave,
		validation.Field(&c.Autosave.Delay, validation.Min(time.Duration(0))),
	)
}
