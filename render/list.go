package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-postview/media"
	"github.com/goliatone/go-postview/template"
)

// Card is one fully resolved list entry. Blocks the config does not enable,
// or whose resolved value is empty, are left at their zero value and the
// consumer omits them.
type Card struct {
	ID        string
	Thumbnail *Thumbnail
	Meta      []MetaValue
	Title     string
	Excerpt   string
	Actions   []Action
}

// Thumbnail carries the resolved image plus the ordered alternatives the
// consumer steps through on load failure.
type Thumbnail struct {
	URL       string
	Fallbacks []string
}

// MetaValue is one resolved meta row entry.
type MetaValue struct {
	Type MetaType
	Text string
	Icon string
}

// Action is one resolved action row entry.
type Action struct {
	Type     ActionType
	Label    string
	URL      string
	External bool
	Count    int
}

// List produces one card per record after applying the config's order and
// limit directives. Records that fail individual block resolution degrade to
// cards with those blocks omitted.
func (r *Renderer) List(cfg ListConfig, records []map[string]any) ([]Card, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	ordered := orderRecords(records, cfg.Order)
	if cfg.Limit > 0 && len(ordered) > cfg.Limit {
		ordered = ordered[:cfg.Limit]
	}

	cards := make([]Card, 0, len(ordered))
	for _, record := range ordered {
		if record == nil {
			continue
		}
		cards = append(cards, r.buildCard(cfg.Display, record))
	}
	return cards, nil
}

func (r *Renderer) buildCard(display DisplayConfig, record map[string]any) Card {
	card := Card{ID: recordID(record)}

	if display.Thumbnail != nil {
		if url, ok := media.ResolveThumbnail(record, display.Thumbnail.Fallback); ok {
			chain := media.NewFallbackChain(url)
			card.Thumbnail = &Thumbnail{URL: url, Fallbacks: chain.Candidates()[1:]}
		}
	}
	card.Meta = r.buildMeta(display.Meta, record)
	if display.Title != nil {
		card.Title = template.Interpolate(display.Title.Value, record)
	}
	if display.Excerpt != nil {
		raw := template.Interpolate(display.Excerpt.Value, record)
		card.Excerpt = Truncate(raw, display.Excerpt.Length)
	}
	card.Actions = r.buildActions(display.Actions, record)
	return card
}

// buildMeta resolves the tagged meta item union. The switch is exhaustive
// over MetaType; items whose resolved value is empty are omitted entirely.
func (r *Renderer) buildMeta(items []MetaItemConfig, record map[string]any) []MetaValue {
	if len(items) == 0 {
		return nil
	}
	out := make([]MetaValue, 0, len(items))
	for _, item := range items {
		if !template.EvaluateCondition(item.If, record) {
			continue
		}
		var text string
		switch item.Type {
		case MetaText, MetaBadge:
			text = template.Interpolate(item.Value, record)
		case MetaDate:
			value, ok := template.Resolve(item.Value, record)
			if !ok {
				continue
			}
			text = formatDateValue(value, item.Format)
		default:
			continue
		}
		if text == "" || text == "undefined" {
			continue
		}
		out = append(out, MetaValue{Type: item.Type, Text: text, Icon: item.Icon})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (r *Renderer) buildActions(actions []ActionConfig, record map[string]any) []Action {
	if len(actions) == 0 {
		return nil
	}
	out := make([]Action, 0, len(actions))
	for _, action := range actions {
		if !template.EvaluateCondition(action.If, record) {
			continue
		}
		switch action.Type {
		case ActionLike:
			out = append(out, Action{
				Type:  ActionLike,
				Label: action.Label,
				Count: recordCount(record, "like_count"),
			})
		case ActionComment:
			out = append(out, Action{
				Type:  ActionComment,
				Label: action.Label,
				Count: recordCount(record, "comment_count"),
			})
		case ActionLink:
			if r.navigator == nil {
				continue
			}
			key := recordID(record)
			if key == "" {
				continue
			}
			url, err := r.navigator.DetailURL(key)
			if err != nil {
				r.logger.Warn("detail link resolution failed", "record_id", key, "error", err)
				continue
			}
			out = append(out, Action{Type: ActionLink, Label: action.Label, URL: url})
		case ActionExternalLink:
			url := template.Interpolate(action.URL, record)
			if url == "" || url == "undefined" {
				continue
			}
			out = append(out, Action{Type: ActionExternalLink, Label: action.Label, URL: url, External: true})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Truncate returns the first limit runes of text, appending an ellipsis only
// when the input is strictly longer. A non-positive limit uses the default.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		limit = 100
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func orderRecords(records []map[string]any, order *OrderConfig) []map[string]any {
	out := make([]map[string]any, len(records))
	copy(out, records)
	if order == nil || order.Field == "" {
		return out
	}
	desc := strings.EqualFold(order.Direction, "desc")
	sort.SliceStable(out, func(i, j int) bool {
		less := lessByField(out[i], out[j], order.Field)
		if desc {
			return !less && !equalByField(out[i], out[j], order.Field)
		}
		return less
	})
	return out
}

func lessByField(a, b map[string]any, field string) bool {
	av, aok := template.Resolve(field, a)
	bv, bok := template.Resolve(field, b)
	if !aok || av == nil {
		return bok && bv != nil
	}
	if !bok || bv == nil {
		return false
	}
	if at, aIs := asTime(av); aIs {
		if bt, bIs := asTime(bv); bIs {
			return at.Before(bt)
		}
	}
	if af, aIs := asNumber(av); aIs {
		if bf, bIs := asNumber(bv); bIs {
			return af < bf
		}
	}
	return template.Stringify(av) < template.Stringify(bv)
}

func equalByField(a, b map[string]any, field string) bool {
	av, _ := template.Resolve(field, a)
	bv, _ := template.Resolve(field, b)
	return template.Stringify(av) == template.Stringify(bv)
}

func asTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return parseTimeStringStrict(v)
	default:
		return time.Time{}, false
	}
}

// parseTimeStringStrict only accepts RFC3339 shapes so plain strings sort
// lexically instead of being misread as dates.
func parseTimeStringStrict(value string) (time.Time, bool) {
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func recordID(record map[string]any) string {
	if value, ok := template.Resolve("id", record); ok && value != nil {
		return template.Stringify(value)
	}
	if value, ok := template.Resolve("slug", record); ok && value != nil {
		return template.Stringify(value)
	}
	return ""
}

func recordCount(record map[string]any, field string) int {
	value, ok := template.Resolve(field, record)
	if !ok {
		return 0
	}
	if n, ok := asNumber(value); ok {
		if n < 0 {
			return 0
		}
		return int(n)
	}
	return 0
}
