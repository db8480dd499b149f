// Package seo computes page head tags as plain data. Rather than mutating a
// document imperatively, callers register per-page entries once and ask for
// the resolved tag set by page key; the host's head-management layer applies
// the result.
package seo

import "strings"

// Tag is one meta tag. Name covers standard meta names, Property covers
// OpenGraph-style properties; exactly one of them is normally set.
type Tag struct {
	Name     string
	Property string
	Content  string
}

// PageTags is the resolved head content for one page.
type PageTags struct {
	Title string
	Meta  []Tag
}

// Registry maps page keys to their head content with a site-wide default
// entry. Compute is pure: the same registry and key always produce the same
// tags.
type Registry struct {
	defaults PageTags
	pages    map[string]PageTags
}

// NewRegistry builds a registry around the site default entry.
func NewRegistry(defaults PageTags) *Registry {
	return &Registry{
		defaults: clonePageTags(defaults),
		pages:    map[string]PageTags{},
	}
}

// Register sets the head content for a page key, replacing any previous
// entry. Registration happens at setup time; Compute never mutates.
func (r *Registry) Register(key string, tags PageTags) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	r.pages[key] = clonePageTags(tags)
}

// Compute resolves the head content for a page key. Unknown keys fall back
// to the site defaults. A page entry's tags override default tags with the
// same name or property; remaining defaults are kept.
func (r *Registry) Compute(key string) PageTags {
	page, ok := r.pages[strings.TrimSpace(key)]
	if !ok {
		return clonePageTags(r.defaults)
	}

	out := PageTags{Title: page.Title}
	if out.Title == "" {
		out.Title = r.defaults.Title
	}

	seen := make(map[string]bool, len(page.Meta))
	for _, tag := range page.Meta {
		out.Meta = append(out.Meta, tag)
		seen[tagKey(tag)] = true
	}
	for _, tag := range r.defaults.Meta {
		if seen[tagKey(tag)] {
			continue
		}
		out.Meta = append(out.Meta, tag)
	}
	return out
}

func tagKey(tag Tag) string {
	if tag.Property != "" {
		return "property:" + tag.Property
	}
	return "name:" + tag.Name
}

func clonePageTags(tags PageTags) PageTags {
	out := PageTags{Title: tags.Title}
	if len(tags.Meta) > 0 {
		out.Meta = make([]Tag, len(tags.Meta))
		copy(out.Meta, tags.Meta)
	}
	return out
}
