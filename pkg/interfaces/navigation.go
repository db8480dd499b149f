package interfaces

// Navigator builds application URLs for internal navigation: the list
// renderer's `link` action and internal CTAs resolve through it so the
// templating core stays free of routing concerns.
type Navigator interface {
	// DetailURL returns the detail page URL for a record, keyed by its ID or slug.
	DetailURL(key string) (string, error)
	// ListURL returns the listing page URL for a source category.
	ListURL(category string) (string, error)
}
