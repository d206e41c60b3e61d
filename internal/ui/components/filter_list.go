package components

import (
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// FilterList renders an effective predicate list with an optional SQL preview
type FilterList struct {
	Title  string
	Set    models.ViewFilterSet
	Labels map[string]string
	SQL    string
	Styles Styles
}

// View renders the filter list
func (fl *FilterList) View() string {
	var sections []string

	if fl.Title != "" {
		sections = append(sections, fl.Styles.Header.Render(fl.Title))
	}
	sections = append(sections, fmt.Sprintf("Mode: %s", fl.Set.FilterMode.OrDefault()))

	if len(fl.Set.Filters) == 0 {
		sections = append(sections, fl.Styles.Status.Render("No filters"))
	} else {
		for i, f := range fl.Set.Filters {
			sections = append(sections, fmt.Sprintf(" %d. %s", i+1, fl.describe(f)))
		}
	}

	if fl.SQL != "" {
		sections = append(sections, "", "SQL Preview:")
		previewStyle := fl.Styles.Status.Padding(0, 1)
		sections = append(sections, previewStyle.Render(fl.SQL))
	}

	return strings.Join(sections, "\n")
}

func (fl *FilterList) describe(f models.ServerTableFilter) string {
	field := f.Field
	if label, ok := fl.Labels[f.Field]; ok && label != "" {
		field = label
	}
	switch f.Operator {
	case models.OpIsTrue, models.OpIsFalse:
		return fmt.Sprintf("%s %s", field, f.Operator)
	}
	return fmt.Sprintf("%s %s %s", field, f.Operator, formatFilterValue(f.Value))
}

func formatFilterValue(v any) string {
	switch val := v.(type) {
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return FormatCell(v)
	}
}
