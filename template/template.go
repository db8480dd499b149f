// Package template implements the record-templating core used by the list and
// detail renderers: dotted-path field resolution, `{{expr}}` interpolation
// with `||` fallback candidates, and string-emptiness condition evaluation.
//
// Records are untyped maps, typically decoded from JSON. Resolution never
// fails with an error; a missing or unreachable path is reported through the
// boolean return so callers can decide what counts as empty.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches `{{...}}` regions non-greedily. Placeholder
// bodies never contain a literal `}}`.
var placeholderPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Resolve walks a dotted path against a record, descending only through plain
// nested objects. It returns the terminal value and true when every segment
// exists; otherwise nil and false. Terminal nil, zero, false, and empty-string
// values are returned as-is with true.
func Resolve(path string, record map[string]any) (any, bool) {
	if path == "" {
		return nil, false
	}

	segments := strings.Split(path, ".")
	var current any = record
	for i, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, ok := node[segment]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		current = value
	}
	return nil, false
}

// Interpolate expands every `{{...}}` placeholder in tmpl against the record.
// Each placeholder body is a `||`-separated candidate list evaluated left to
// right; the first candidate producing a defined, non-nil, non-empty value
// wins. A candidate wrapped in single quotes is a literal. Placeholders with
// no winning candidate expand to the empty string. Templates without
// placeholders are returned unchanged.
func Interpolate(tmpl string, record map[string]any) string {
	if tmpl == "" || !strings.Contains(tmpl, "{{") {
		return tmpl
	}

	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		return expandPlaceholder(match[2:len(match)-2], record)
	})
}

// InterpolateValue applies Interpolate when the input is a string and passes
// every other value through untouched. Config fields are occasionally reused
// as non-string values (booleans, numbers) and must not be coerced.
func InterpolateValue(value any, record map[string]any) any {
	if text, ok := value.(string); ok {
		return Interpolate(text, record)
	}
	return value
}

// EvaluateCondition decides whether a conditional block should render. An
// empty condition always renders. Otherwise the condition is interpolated and
// the block renders unless the result is empty or the literal text
// "undefined". This is a string-emptiness check, not boolean logic: the text
// "false" or "0" still renders.
func EvaluateCondition(condition string, record map[string]any) bool {
	if condition == "" {
		return true
	}
	resolved := Interpolate(condition, record)
	return resolved != "" && resolved != "undefined"
}

// Stringify renders a resolved value as display text. Falsy-but-defined
// values keep their textual form ("0", "false"); nil renders empty.
func Stringify(value any) string {
	if value == nil {
		return ""
	}
	if text, ok := value.(string); ok {
		return text
	}
	return fmt.Sprintf("%v", value)
}

func expandPlaceholder(expr string, record map[string]any) string {
	for _, candidate := range strings.Split(expr, "||") {
		candidate = strings.TrimSpace(candidate)
		if isQuotedLiteral(candidate) {
			if literal := candidate[1 : len(candidate)-1]; literal != "" {
				return literal
			}
			continue
		}

		value, ok := Resolve(candidate, record)
		if !ok || value == nil {
			continue
		}
		if text := Stringify(value); text != "" {
			return text
		}
	}
	return ""
}

func isQuotedLiteral(candidate string) bool {
	return len(candidate) >= 2 && strings.HasPrefix(candidate, "'") && strings.HasSuffix(candidate, "'")
}
