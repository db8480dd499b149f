// Package navigation builds internal application URLs for the renderers: the
// list renderer's link action and internal detail CTAs resolve through it.
package navigation

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// URLKitNavigatorOptions configures the go-urlkit backed navigator.
type URLKitNavigatorOptions struct {
	Manager     *urlkit.RouteManager
	Group       string
	DetailRoute string
	ListRoute   string
	KeyParam    string
	ListParam   string
}

// URLKitNavigator implements interfaces.Navigator over a go-urlkit
// RouteManager.
type URLKitNavigator struct {
	manager     *urlkit.RouteManager
	group       string
	detailRoute string
	listRoute   string
	keyParam    string
	listParam   string
}

// NewURLKitNavigator constructs a navigator. Route and parameter names
// default to "detail"/"list" and "key"/"category".
func NewURLKitNavigator(opts URLKitNavigatorOptions) *URLKitNavigator {
	if opts.Group == "" {
		opts.Group = "posts"
	}
	if opts.DetailRoute == "" {
		opts.DetailRoute = "detail"
	}
	if opts.ListRoute == "" {
		opts.ListRoute = "list"
	}
	if opts.KeyParam == "" {
		opts.KeyParam = "key"
	}
	if opts.ListParam == "" {
		opts.ListParam = "category"
	}
	return &URLKitNavigator{
		manager:     opts.Manager,
		group:       strings.TrimSpace(opts.Group),
		detailRoute: opts.DetailRoute,
		listRoute:   opts.ListRoute,
		keyParam:    opts.KeyParam,
		listParam:   opts.ListParam,
	}
}

// DetailURL builds the detail page URL for a record key (ID or slug).
func (n *URLKitNavigator) DetailURL(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("navigation: record key required")
	}
	return n.build(n.detailRoute, n.keyParam, key)
}

// ListURL builds the listing page URL for a source category.
func (n *URLKitNavigator) ListURL(category string) (string, error) {
	if strings.TrimSpace(category) == "" {
		return "", fmt.Errorf("navigation: category required")
	}
	return n.build(n.listRoute, n.listParam, category)
}

func (n *URLKitNavigator) build(route, param, value string) (string, error) {
	group, err := n.lookupGroup()
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	builder.WithParam(param, value)
	url, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("navigation: build %s url: %w", route, err)
	}
	return url, nil
}

// lookupGroup guards against urlkit's panic on unknown groups so a
// misconfigured route surfaces as an error.
func (n *URLKitNavigator) lookupGroup() (group *urlkit.Group, err error) {
	if n.manager == nil {
		return nil, fmt.Errorf("navigation: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("navigation: route group %q not found", n.group)
		}
	}()
	group = n.manager.Group(n.group)
	return group, err
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("navigation: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("navigation: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
