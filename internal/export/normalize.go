// Package export turns raw Gamma market records into a sorted two-sheet
// xlsx workbook.
package export

import (
	"fmt"
	"strings"

	"github.com/alanyoungcy/polysheet/internal/domain"
)

const (
	// PlaceholderTitle is used when a record carries no title-bearing field.
	PlaceholderTitle = "Untitled Market"

	// PlaceholderOutcome stands in for a missing outcome label.
	PlaceholderOutcome = "—"
)

// titleKeys are the title-bearing fields, in priority order.
var titleKeys = []string{"question", "title", "name", "slug"}

// outcomeKeys are the outcome-list fields, in priority order. Older API
// shapes used "outcomeNames".
var outcomeKeys = []string{"outcomes", "outcomeNames"}

// typeKeys are the market type/category fields, in priority order. Only
// consulted as a last resort when no outcome list is present.
var typeKeys = []string{"conditionType", "type"}

// binaryTypes are the type/category values that imply a Yes/No market.
var binaryTypes = map[string]bool{
	"binary": true,
	"scalar": true,
	"range":  true,
}

// Normalize derives a display title and the ordered outcome labels from a
// raw Gamma market record. It is a pure function and total: every input
// yields a title and a non-empty outcome list, falling back to placeholders
// when the record carries no usable data.
func Normalize(raw domain.RawMarket) domain.Market {
	return domain.Market{
		Title:    resolveTitle(raw),
		Outcomes: resolveOutcomes(raw),
	}
}

// resolveTitle returns the first non-empty title-bearing field, trimmed, or
// the placeholder title.
func resolveTitle(raw domain.RawMarket) string {
	for _, key := range titleKeys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(stringify(v)); s != "" {
			return s
		}
	}
	return PlaceholderTitle
}

// resolveOutcomes applies the outcome fallback chain: a non-empty outcome
// list field, then a recognized binary-ish type/category value (implying
// Yes/No), then a placeholder pair.
func resolveOutcomes(raw domain.RawMarket) []string {
	for _, key := range outcomeKeys {
		if list, ok := stringList(raw[key]); ok && len(list) > 0 {
			return list
		}
	}

	for _, key := range typeKeys {
		s, ok := raw[key].(string)
		if !ok || s == "" {
			continue
		}
		if binaryTypes[strings.ToLower(s)] {
			return []string{"Yes", "No"}
		}
		break
	}

	return []string{PlaceholderOutcome, PlaceholderOutcome}
}

// stringList converts a JSON list value into its stringified elements.
// The second return is false when v is not a list.
func stringList(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, el := range list {
		out = append(out, stringify(el))
	}
	return out, true
}

// stringify renders a decoded JSON value as a cell-ready string. Strings
// pass through; everything else goes through fmt.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
