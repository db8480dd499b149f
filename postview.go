// Package postview turns author-supplied render configs plus stored content
// records into fully resolved list and detail views. The module facade wires
// the post store, the renderers, routing, markdown conversion, publication
// scheduling, and draft autosave behind one constructor.
package postview

import (
	"context"
	"database/sql"
	"fmt"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-postview/autosave"
	"github.com/goliatone/go-postview/internal/logging"
	"github.com/goliatone/go-postview/internal/logging/gologger"
	"github.com/goliatone/go-postview/internal/markdown"
	"github.com/goliatone/go-postview/internal/navigation"
	"github.com/goliatone/go-postview/internal/scheduler"
	"github.com/goliatone/go-postview/pkg/interfaces"
	"github.com/goliatone/go-postview/posts"
	"github.com/goliatone/go-postview/render"
	"github.com/goliatone/go-postview/seo"
	"github.com/goliatone/go-postview/viewer"
)

// PostService exports the post service contract for module consumers.
type PostService = posts.Service

// Session exports the detail page session.
type Session = viewer.Session

// Module is the top level runtime facade.
type Module struct {
	cfg Config

	db        *bun.DB
	posts     posts.Service
	renderer  *render.Renderer
	navigator interfaces.Navigator
	markdown  interfaces.MarkdownParser
	importer  *markdown.Importer
	scheduler interfaces.Scheduler
	seo       *seo.Registry
	provider  interfaces.LoggerProvider
}

// Option overrides module wiring.
type Option func(*Module)

// WithLoggerProvider wires structured logging for every component.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.provider = provider
	}
}

// WithDB supplies a dialect-configured bun DB. Required for the postgres
// driver; overrides the DSN for sqlite.
func WithDB(db *bun.DB) Option {
	return func(m *Module) {
		m.db = db
	}
}

// WithScheduler overrides the publication job scheduler.
func WithScheduler(sched interfaces.Scheduler) Option {
	return func(m *Module) {
		if sched != nil {
			m.scheduler = sched
		}
	}
}

// NewPostgresDB wraps a pgx or lib/pq connection in a dialect-configured bun
// DB for use with WithDB and the postgres driver.
func NewPostgresDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

// New assembles the module from configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{
		cfg:       cfg,
		scheduler: scheduler.NewInMemory(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.provider == nil && cfg.Logging.Enabled {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	if err := m.configureStorage(); err != nil {
		return nil, err
	}
	m.configureNavigation()
	m.configureMarkdown()
	m.configureSEO()

	m.renderer = render.New(
		render.WithNavigator(m.navigator),
		render.WithMarkdown(m.markdown),
		render.WithLogger(m.provider),
	)
	m.importer = markdown.NewImporter(m.posts, markdown.WithImportLogger(m.provider))

	return m, nil
}

func (m *Module) configureStorage() error {
	switch m.cfg.Storage.Driver {
	case DriverMemory:
		m.posts = posts.NewService(
			posts.NewMemoryPostRepository(),
			posts.NewMemoryCommentRepository(),
			posts.NewMemoryLikeRepository(),
			posts.WithLogger(m.provider),
			posts.WithScheduler(m.scheduler),
		)
		return nil
	case DriverSQLite:
		if m.db == nil {
			sqldb, err := sql.Open("sqlite3", m.cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("postview: open sqlite: %w", err)
			}
			m.db = bun.NewDB(sqldb, sqlitedialect.New())
		}
	case DriverPostgres:
		if m.db == nil {
			return ErrStorageDBRequired
		}
	}

	var (
		cacheService repocache.CacheService
		serializer   repocache.KeySerializer
	)
	if m.cfg.Storage.CacheTTL > 0 {
		cacheCfg := repocache.DefaultConfig()
		cacheCfg.TTL = m.cfg.Storage.CacheTTL
		service, err := repocache.NewCacheService(cacheCfg)
		if err == nil {
			cacheService = service
			serializer = repocache.NewDefaultKeySerializer()
		}
	}

	m.posts = posts.NewService(
		posts.NewBunPostRepositoryWithCache(m.db, cacheService, serializer),
		posts.NewBunCommentRepository(m.db),
		posts.NewBunLikeRepository(m.db),
		posts.WithLogger(m.provider),
		posts.WithScheduler(m.scheduler),
	)
	return nil
}

func (m *Module) configureNavigation() {
	routes := m.cfg.Navigation.Routes
	if routes == nil {
		return
	}
	manager := urlkit.NewRouteManager(routes)
	m.navigator = navigation.NewURLKitNavigator(navigation.URLKitNavigatorOptions{
		Manager:     manager,
		Group:       m.cfg.Navigation.Group,
		DetailRoute: m.cfg.Navigation.DetailRoute,
		ListRoute:   m.cfg.Navigation.ListRoute,
		KeyParam:    m.cfg.Navigation.KeyParam,
		ListParam:   m.cfg.Navigation.ListParam,
	})
}

func (m *Module) configureMarkdown() {
	m.markdown = markdown.NewGoldmarkParser(interfaces.ParseOptions{
		Extensions: m.cfg.Markdown.Extensions,
		HardWraps:  m.cfg.Markdown.HardWraps,
		SafeMode:   m.cfg.Markdown.SafeMode,
	})
}

func (m *Module) configureSEO() {
	m.seo = seo.NewRegistry(seo.PageTags{
		Title: m.cfg.SEO.DefaultTitle,
		Meta:  m.cfg.SEO.DefaultMeta,
	})
	for key, tags := range m.cfg.SEO.Pages {
		m.seo.Register(key, tags)
	}
}

// Posts returns the configured post service.
func (m *Module) Posts() PostService {
	return m.posts
}

// Renderer returns the list/detail renderer.
func (m *Module) Renderer() *render.Renderer {
	return m.renderer
}

// Navigator returns the internal URL builder, or nil when routing is not
// configured.
func (m *Module) Navigator() interfaces.Navigator {
	return m.navigator
}

// Markdown returns the markdown parser.
func (m *Module) Markdown() interfaces.MarkdownParser {
	return m.markdown
}

// Importer returns the markdown post importer.
func (m *Module) Importer() *markdown.Importer {
	return m.importer
}

// Scheduler returns the publication job scheduler.
func (m *Module) Scheduler() interfaces.Scheduler {
	return m.scheduler
}

// SEO returns the page tag registry.
func (m *Module) SEO() *seo.Registry {
	return m.seo
}

// DB exposes the underlying bun DB for host migrations; nil for the memory
// driver.
func (m *Module) DB() *bun.DB {
	return m.db
}

// InitSchema creates the post, comment, and like tables when they do not
// exist yet. Hosts that own their migrations can skip this and manage the
// schema through DB(). No-op for the memory driver.
func (m *Module) InitSchema(ctx context.Context) error {
	if m.db == nil {
		return nil
	}
	models := []any{(*posts.Post)(nil), (*posts.Comment)(nil), (*posts.Like)(nil)}
	for _, model := range models {
		if _, err := m.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("postview: create table: %w", err)
		}
	}
	return nil
}

// NewSession opens a viewer session for one post.
func (m *Module) NewSession(postID uuid.UUID, opts ...viewer.SessionOption) *Session {
	return viewer.NewSession(m.posts, postID, opts...)
}

// NewAutosaver builds a debounced autosaver around the supplied save
// function, honoring the configured delay.
func (m *Module) NewAutosaver(save autosave.SaveFunc) (*autosave.Autosaver, error) {
	opts := []autosave.Option{autosave.WithLogger(m.provider)}
	if m.cfg.Autosave.Delay > 0 {
		opts = append(opts, autosave.WithDelay(m.cfg.Autosave.Delay))
	}
	return autosave.New(save, opts...)
}

// Logger returns the module-scoped root logger.
func (m *Module) Logger() interfaces.Logger {
	return logging.ModuleLogger(m.provider, "")
}
