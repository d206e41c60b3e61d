package filter

import (
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/registry"
)

// Normalizer converts raw quick filter values into server predicates
type Normalizer struct {
	registry *registry.Registry
}

// NewNormalizer creates a normalizer over reg. A nil registry defines no filters,
// so every column goes through default inference.
func NewNormalizer(reg *registry.Registry) *Normalizer {
	return &Normalizer{registry: reg}
}

// Normalize translates values into predicates in the values' insertion order.
// Empty values never produce a predicate and malformed values never fail.
func (n *Normalizer) Normalize(tableID string, values models.GlobalFilterValues) []models.ServerTableFilter {
	out := make([]models.ServerTableFilter, 0, values.Len())
	values.Each(func(columnKey string, raw models.FilterValue) {
		if raw.IsEmpty() {
			return
		}
		out = append(out, resolveValue(n.filterType(tableID, columnKey), raw).predicates(columnKey)...)
	})
	return out
}

// filterType returns "" for unregistered columns, which selects default inference
func (n *Normalizer) filterType(tableID, columnKey string) models.FilterType {
	if n == nil {
		return ""
	}
	ft, _ := n.registry.FilterType(tableID, columnKey)
	return ft
}

// Normalize is a convenience wrapper for one-off calls
func Normalize(reg *registry.Registry, tableID string, values models.GlobalFilterValues) []models.ServerTableFilter {
	return NewNormalizer(reg).Normalize(tableID, values)
}
