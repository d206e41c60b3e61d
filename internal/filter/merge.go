package filter

import "github.com/rebeliceyang/lazygrid/internal/models"

// Merge combines a view's predicates with normalized quick filters.
//
// Without quick filters the view is returned unchanged. Otherwise quick filters
// replace view filters on the same field, are appended after the remaining view
// filters, and the mode is always "all".
func Merge(viewFilters []models.ServerTableFilter, viewMode models.FilterMode, quickFilters []models.ServerTableFilter) models.ViewFilterSet {
	if len(quickFilters) == 0 {
		return models.ViewFilterSet{Filters: viewFilters, FilterMode: viewMode}
	}

	quickFields := make(map[string]struct{}, len(quickFilters))
	for _, f := range quickFilters {
		quickFields[f.Field] = struct{}{}
	}

	merged := make([]models.ServerTableFilter, 0, len(viewFilters)+len(quickFilters))
	for _, f := range viewFilters {
		if _, overridden := quickFields[f.Field]; overridden {
			continue
		}
		merged = append(merged, f)
	}
	merged = append(merged, quickFilters...)

	return models.ViewFilterSet{Filters: merged, FilterMode: models.FilterModeAll}
}

// MergeSet is Merge over a ViewFilterSet
func MergeSet(view models.ViewFilterSet, quickFilters []models.ServerTableFilter) models.ViewFilterSet {
	return Merge(view.Filters, view.FilterMode, quickFilters)
}
