package navigation

import (
	"strings"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"
)

func testManager() *urlkit.RouteManager {
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "posts",
				BaseURL: "https://example.org",
				Paths: map[string]string{
					"detail": "/posts/:key",
					"list":   "/posts/category/:category",
				},
			},
		},
	})
}

func TestDetailURL(t *testing.T) {
	nav := NewURLKitNavigator(URLKitNavigatorOptions{Manager: testManager()})

	url, err := nav.DetailURL("winter-fundraiser")
	if err != nil {
		t.Fatalf("detail url: %v", err)
	}
	if !strings.HasSuffix(url, "/posts/winter-fundraiser") {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestListURL(t *testing.T) {
	nav := NewURLKitNavigator(URLKitNavigatorOptions{Manager: testManager()})

	url, err := nav.ListURL("news")
	if err != nil {
		t.Fatalf("list url: %v", err)
	}
	if !strings.HasSuffix(url, "/posts/category/news") {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestDetailURL_RequiresKey(t *testing.T) {
	nav := NewURLKitNavigator(URLKitNavigatorOptions{Manager: testManager()})
	if _, err := nav.DetailURL("  "); err == nil {
		t.Fatalf("expected empty key rejection")
	}
}

func TestNavigator_UnknownGroup(t *testing.T) {
	nav := NewURLKitNavigator(URLKitNavigatorOptions{Manager: testManager(), Group: "missing"})
	if _, err := nav.DetailURL("abc"); err == nil {
		t.Fatalf("expected unknown group error")
	}
}

func TestNavigator_NoManager(t *testing.T) {
	nav := NewURLKitNavigator(URLKitNavigatorOptions{})
	if _, err := nav.DetailURL("abc"); err == nil {
		t.Fatalf("expected missing manager error")
	}
}
