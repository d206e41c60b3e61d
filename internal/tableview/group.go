package tableview

import "github.com/rebeliceyang/lazygrid/internal/models"

// RankFunc ranks a group; lower ranks come first
type RankFunc func(groupValue string, rows []models.Row) float64

// GroupSortOrder orders groups either by a fixed list of group values or by a
// ranking function. Values wins when both are set.
type GroupSortOrder struct {
	Values []string
	Rank   RankFunc
}

// GroupBy is the active grouping of a table
type GroupBy struct {
	Field            string
	SortOrder        GroupSortOrder
	DefaultCollapsed bool
}

// GroupByFromSpec builds a runtime grouping from its persisted form
func GroupByFromSpec(spec *models.GroupSpec) *GroupBy {
	if spec == nil || spec.Field == "" {
		return nil
	}
	values := make([]string, len(spec.Order))
	copy(values, spec.Order)
	return &GroupBy{
		Field:            spec.Field,
		SortOrder:        GroupSortOrder{Values: values},
		DefaultCollapsed: spec.DefaultCollapsed,
	}
}

// Spec returns the persistable part of g. A ranking function cannot be persisted
// and is dropped.
func (g *GroupBy) Spec() *models.GroupSpec {
	if g == nil {
		return nil
	}
	var order []string
	if len(g.SortOrder.Values) > 0 {
		order = make([]string, len(g.SortOrder.Values))
		copy(order, g.SortOrder.Values)
	}
	return &models.GroupSpec{
		Field:            g.Field,
		Order:            order,
		DefaultCollapsed: g.DefaultCollapsed,
	}
}

func (g *GroupBy) clone() *GroupBy {
	if g == nil {
		return nil
	}
	c := *g
	if g.SortOrder.Values != nil {
		c.SortOrder.Values = make([]string, len(g.SortOrder.Values))
		copy(c.SortOrder.Values, g.SortOrder.Values)
	}
	return &c
}
