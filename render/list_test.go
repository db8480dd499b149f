package render

import (
	"strings"
	"testing"
)

type stubNavigator struct{}

func (stubNavigator) DetailURL(key string) (string, error) { return "/news/" + key, nil }
func (stubNavigator) ListURL(category string) (string, error) {
	return "/" + category, nil
}

func sampleRecords() []map[string]any {
	return []map[string]any{
		{
			"id":            "post-1",
			"title":         "First",
			"summary":       "A short summary",
			"created_at":    "2026-01-10T09:00:00Z",
			"like_count":    3,
			"comment_count": 1,
			"thumbnail_url": "https://cdn.example.org/a.jpg",
		},
		{
			"id":         "post-2",
			"title":      "Second",
			"summary":    strings.Repeat("x", 120),
			"created_at": "2026-02-10T09:00:00Z",
			"metadata":   map[string]any{"external_url": "https://example.org/report"},
		},
	}
}

func TestList_OrderLimitAndBlocks(t *testing.T) {
	r := New(WithNavigator(stubNavigator{}))
	cfg := ListConfig{
		Order: &OrderConfig{Field: "created_at", Direction: "desc"},
		Limit: 1,
		Display: DisplayConfig{
			Title:   &TitleConfig{Value: "{{title}}"},
			Excerpt: &ExcerptConfig{Value: "{{summary}}"},
		},
	}

	cards, err := r.List(cfg, sampleRecords())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card after limit, got %d", len(cards))
	}
	if cards[0].Title != "Second" {
		t.Fatalf("expected newest record first, got %q", cards[0].Title)
	}
	// 120 chars truncated at the default 100 with ellipsis.
	if len([]rune(cards[0].Excerpt)) != 103 || !strings.HasSuffix(cards[0].Excerpt, "...") {
		t.Fatalf("unexpected excerpt: %q", cards[0].Excerpt)
	}
	if cards[0].Thumbnail != nil {
		t.Fatalf("thumbnail block should be omitted when not configured")
	}
}

func TestList_ThumbnailBlock(t *testing.T) {
	r := New()
	cfg := ListConfig{
		Display: DisplayConfig{
			Thumbnail: &ThumbnailConfig{},
		},
	}

	cards, err := r.List(cfg, []map[string]any{
		{"id": "a", "youtube_url": "https://youtu.be/dQw4w9WgXcQ"},
		{"id": "b"},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if cards[0].Thumbnail == nil {
		t.Fatalf("expected derived thumbnail")
	}
	if cards[0].Thumbnail.URL != "https://img.youtube.com/vi/dQw4w9WgXcQ/default.jpg" {
		t.Fatalf("unexpected thumbnail url: %q", cards[0].Thumbnail.URL)
	}
	if len(cards[0].Thumbnail.Fallbacks) != 3 {
		t.Fatalf("expected 3 quality fallbacks, got %d", len(cards[0].Thumbnail.Fallbacks))
	}
	if cards[1].Thumbnail != nil {
		t.Fatalf("record without imagery should omit the thumbnail block")
	}
}

func TestList_MetaItems(t *testing.T) {
	r := New()
	cfg := ListConfig{
		Display: DisplayConfig{
			Meta: []MetaItemConfig{
				{Type: MetaDate, Value: "created_at", Format: "YYYY.MM.DD"},
				{Type: MetaBadge, Value: "{{category}}"},
				{Type: MetaText, Value: "{{metadata.location}}"},
			},
		},
	}

	cards, err := r.List(cfg, []map[string]any{
		{"id": "a", "created_at": "2026-01-10T09:00:00Z", "category": "news"},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	meta := cards[0].Meta
	if len(meta) != 2 {
		t.Fatalf("expected empty meta item omitted, got %d items", len(meta))
	}
	if meta[0].Type != MetaDate || meta[0].Text != "2026.01.10" {
		t.Fatalf("unexpected date item: %+v", meta[0])
	}
	if meta[1].Type != MetaBadge || meta[1].Text != "news" {
		t.Fatalf("unexpected badge item: %+v", meta[1])
	}
}

func TestList_Actions(t *testing.T) {
	r := New(WithNavigator(stubNavigator{}))
	cfg := ListConfig{
		Display: DisplayConfig{
			Actions: []ActionConfig{
				{Type: ActionLike},
				{Type: ActionComment},
				{Type: ActionLink, Label: "Read more"},
				{Type: ActionExternalLink, Label: "Source", URL: "{{metadata.external_url}}"},
			},
		},
	}

	records := sampleRecords()
	cards, err := r.List(cfg, records)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	first := cards[0].Actions
	if len(first) != 3 {
		t.Fatalf("expected external link omitted for record without url, got %d actions", len(first))
	}
	if first[0].Type != ActionLike || first[0].Count != 3 {
		t.Fatalf("unexpected like action: %+v", first[0])
	}
	if first[1].Type != ActionComment || first[1].Count != 1 {
		t.Fatalf("unexpected comment action: %+v", first[1])
	}
	if first[2].Type != ActionLink || first[2].URL != "/news/post-1" {
		t.Fatalf("unexpected link action: %+v", first[2])
	}

	second := cards[1].Actions
	last := second[len(second)-1]
	if last.Type != ActionExternalLink || last.URL != "https://example.org/report" || !last.External {
		t.Fatalf("unexpected external action: %+v", last)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		text  string
		limit int
		want  string
	}{
		{"0123456789", 5, "01234..."},
		{"abc", 5, "abc"},
		{"exact", 5, "exact"},
		{"한국어는 러닝 필요", 4, "한국어는..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.text, tt.limit); got != tt.want {
			t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
		}
	}
}

func TestList_InvalidConfig(t *testing.T) {
	r := New()
	cfg := ListConfig{
		Display: DisplayConfig{
			Meta: []MetaItemConfig{{Type: "unknown", Value: "{{x}}"}},
		},
	}
	if _, err := r.List(cfg, nil); err == nil {
		t.Fatalf("expected invalid meta type to fail")
	}
}
