package models

import "time"

// SortDirection is the direction of a single sort key
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec is one key of a multi-column sort
type SortSpec struct {
	Field     string        `json:"field" yaml:"field"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// GroupSpec is the persistable part of a grouping: a field and an optional fixed value order
type GroupSpec struct {
	Field            string   `json:"field" yaml:"field"`
	Order            []string `json:"order,omitempty" yaml:"order"`
	DefaultCollapsed bool     `json:"defaultCollapsed,omitempty" yaml:"default_collapsed"`
}

// View is a named, persistable combination of filters, sort order and grouping for a table
type View struct {
	ID         string              `json:"id" yaml:"id"`
	TableID    string              `json:"tableId" yaml:"table_id"`
	Name       string              `json:"name" yaml:"name"`
	Filters    []ServerTableFilter `json:"filters" yaml:"filters"`
	FilterMode FilterMode          `json:"filterMode" yaml:"filter_mode"`
	Sorting    []SortSpec          `json:"sorting,omitempty" yaml:"sorting"`
	GroupBy    *GroupSpec          `json:"groupBy,omitempty" yaml:"group_by"`
	PageSize   int                 `json:"pageSize,omitempty" yaml:"page_size"`
	IsDefault  bool                `json:"isDefault,omitempty" yaml:"is_default"`
	CreatedAt  time.Time           `json:"createdAt" yaml:"created_at"`
	UpdatedAt  time.Time           `json:"updatedAt" yaml:"updated_at"`
}

// FilterSet returns the view's predicate list and mode
func (v View) FilterSet() ViewFilterSet {
	return ViewFilterSet{Filters: v.Filters, FilterMode: v.FilterMode.OrDefault()}
}

// Row is one opaque data row keyed by column
type Row map[string]any
