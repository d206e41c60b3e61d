package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/tableview"
)

// stateFlags are the flags that shape the table state before a command runs
type stateFlags struct {
	view   string
	values string
	sets   []string
	lists  []string
	sorts  []string
	group  string
}

func (s *stateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.view, "view", "", "Saved view id or name (default: the table's default view)")
	cmd.Flags().StringVar(&s.values, "values", "", `Quick filter values as JSON, e.g. '{"status":"open","tags":["vip"]}'`)
	cmd.Flags().StringArrayVar(&s.sets, "set", nil, "Quick filter column=value; date ranges as column=from|to (repeatable)")
	cmd.Flags().StringArrayVar(&s.lists, "in", nil, "Quick filter column=a,b,c with a list value (repeatable)")
	cmd.Flags().StringArrayVar(&s.sorts, "sort", nil, "Sort key column or column:desc (repeatable)")
	cmd.Flags().StringVar(&s.group, "group", "", "Group rows by column")
}

// quickValues collects the quick filter values: --values first, then --set,
// then --in, each in command line order.
func (s *stateFlags) quickValues() (models.GlobalFilterValues, error) {
	values := models.NewGlobalFilterValues()
	if s.values != "" {
		if err := json.Unmarshal([]byte(s.values), &values); err != nil {
			return values, fmt.Errorf("invalid --values: %w", err)
		}
	}
	for _, arg := range s.sets {
		key, value, err := splitAssignment("--set", arg)
		if err != nil {
			return values, err
		}
		values.Set(key, models.StringValue(value))
	}
	for _, arg := range s.lists {
		key, value, err := splitAssignment("--in", arg)
		if err != nil {
			return values, err
		}
		values.Set(key, models.ListValue(strings.Split(value, ",")...))
	}
	return values, nil
}

func splitAssignment(flag, arg string) (string, string, error) {
	key, value, ok := strings.Cut(arg, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid %s %q: expected column=value", flag, arg)
	}
	return key, value, nil
}

func (s *stateFlags) sorting() ([]models.SortSpec, error) {
	var out []models.SortSpec
	for _, arg := range s.sorts {
		field, dir, _ := strings.Cut(arg, ":")
		spec := models.SortSpec{Field: strings.TrimSpace(field), Direction: models.SortAsc}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			spec.Direction = models.SortDesc
		default:
			return nil, fmt.Errorf("invalid --sort %q: direction must be asc or desc", arg)
		}
		if spec.Field == "" {
			return nil, fmt.Errorf("invalid --sort %q: missing column", arg)
		}
		out = append(out, spec)
	}
	return out, nil
}

// apply pushes the flags into m on top of the already selected view
func (s *stateFlags) apply(m *tableview.Manager) error {
	sorting, err := s.sorting()
	if err != nil {
		return err
	}
	if len(sorting) > 0 {
		m.SetSorting(sorting)
	}
	if s.group != "" {
		m.SetGroupBy(&tableview.GroupBy{Field: s.group})
	}

	values, err := s.quickValues()
	if err != nil {
		return err
	}
	if values.Len() > 0 {
		m.SetQuickFilters(values)
	}
	return nil
}
