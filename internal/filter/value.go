package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// typedValue is a raw filter value after it has been resolved against the
// column's filter type. Each variant knows which predicates it produces.
type typedValue interface {
	predicates(field string) []models.ServerTableFilter
}

type stringValue struct{ text string }

type listValue struct{ items []string }

type booleanValue struct{ raw string }

type numberValue struct{ raw string }

type dateValue struct{ day string }

type dateRangeValue struct{ from, to string }

type choiceValue struct{ value string }

// resolveValue discards the untyped form. It never fails: malformed input
// becomes a variant that emits nothing or falls back to the raw string.
func resolveValue(ft models.FilterType, raw models.FilterValue) typedValue {
	switch ft {
	case models.FilterTypeDateRange:
		from, to, _ := strings.Cut(raw.First(), "|")
		return dateRangeValue{from: strings.TrimSpace(from), to: strings.TrimSpace(to)}
	case models.FilterTypeBoolean:
		return booleanValue{raw: strings.TrimSpace(raw.First())}
	case models.FilterTypeMultiSelect:
		return listValue{items: cleanItems(raw.Items())}
	case models.FilterTypeSelect, models.FilterTypeAutocomplete:
		return choiceValue{value: strings.TrimSpace(raw.First())}
	case models.FilterTypeDate:
		return dateValue{day: strings.TrimSpace(raw.First())}
	case models.FilterTypeNumber:
		return numberValue{raw: strings.TrimSpace(raw.First())}
	default:
		if raw.IsList() {
			return listValue{items: cleanItems(raw.Items())}
		}
		return stringValue{text: strings.TrimSpace(raw.First())}
	}
}

func (v stringValue) predicates(field string) []models.ServerTableFilter {
	if v.text == "" {
		return nil
	}
	return []models.ServerTableFilter{{Field: field, Operator: models.OpContains, Value: v.text}}
}

func (v listValue) predicates(field string) []models.ServerTableFilter {
	if len(v.items) == 0 {
		return nil
	}
	return []models.ServerTableFilter{{Field: field, Operator: models.OpIn, Value: v.items}}
}

func (v booleanValue) predicates(field string) []models.ServerTableFilter {
	switch v.raw {
	case "true":
		return []models.ServerTableFilter{{Field: field, Operator: models.OpIsTrue, Value: ""}}
	case "false":
		return []models.ServerTableFilter{{Field: field, Operator: models.OpIsFalse, Value: ""}}
	}
	return nil
}

func (v numberValue) predicates(field string) []models.ServerTableFilter {
	if v.raw == "" {
		return nil
	}
	var value any = v.raw
	if n, ok := parseDecimal(v.raw); ok {
		value = n
	}
	return []models.ServerTableFilter{{Field: field, Operator: models.OpEquals, Value: value}}
}

// parseDecimal accepts finite decimal numbers only. ParseFloat also takes
// hex floats ("0x1p4"), which stay raw strings here.
func parseDecimal(raw string) (float64, bool) {
	digits := strings.TrimLeft(raw, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func (v dateValue) predicates(field string) []models.ServerTableFilter {
	if v.day == "" {
		return nil
	}
	return []models.ServerTableFilter{{Field: field, Operator: models.OpDateEquals, Value: v.day}}
}

func (v dateRangeValue) predicates(field string) []models.ServerTableFilter {
	var out []models.ServerTableFilter
	if v.from != "" {
		out = append(out, models.ServerTableFilter{Field: field, Operator: models.OpDateAfter, Value: v.from})
	}
	if v.to != "" {
		out = append(out, models.ServerTableFilter{Field: field, Operator: models.OpDateBefore, Value: v.to})
	}
	return out
}

func (v choiceValue) predicates(field string) []models.ServerTableFilter {
	if v.value == "" {
		return nil
	}
	return []models.ServerTableFilter{{Field: field, Operator: models.OpEquals, Value: v.value}}
}

// cleanItems trims every element and drops the empty ones
func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// PackDateRange encodes a date range the way the UI stores it
func PackDateRange(from, to string) string {
	return from + "|" + to
}

// UnpackDateRange splits a packed date range; a value without a separator is all "from"
func UnpackDateRange(packed string) (from, to string) {
	from, to, _ = strings.Cut(packed, "|")
	return from, to
}
