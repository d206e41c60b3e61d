package models

// FilterType is the semantic type of a filterable column
type FilterType string

const (
	FilterTypeString       FilterType = "string"
	FilterTypeNumber       FilterType = "number"
	FilterTypeBoolean      FilterType = "boolean"
	FilterTypeDate         FilterType = "date"
	FilterTypeDateRange    FilterType = "daterange"
	FilterTypeSelect       FilterType = "select"
	FilterTypeMultiSelect  FilterType = "multiselect"
	FilterTypeAutocomplete FilterType = "autocomplete"
)

// FilterTypes lists every known filter type
var FilterTypes = []FilterType{
	FilterTypeString,
	FilterTypeNumber,
	FilterTypeBoolean,
	FilterTypeDate,
	FilterTypeDateRange,
	FilterTypeSelect,
	FilterTypeMultiSelect,
	FilterTypeAutocomplete,
}

// Valid reports whether t is one of the known filter types
func (t FilterType) Valid() bool {
	for _, known := range FilterTypes {
		if t == known {
			return true
		}
	}
	return false
}

// FilterOperator is a server predicate operator
type FilterOperator string

const (
	OpContains   FilterOperator = "contains"
	OpEquals     FilterOperator = "equals"
	OpIn         FilterOperator = "in"
	OpIsTrue     FilterOperator = "isTrue"
	OpIsFalse    FilterOperator = "isFalse"
	OpDateEquals FilterOperator = "dateEquals"
	OpDateAfter  FilterOperator = "dateAfter"
	OpDateBefore FilterOperator = "dateBefore"
)

// FilterMode controls how a predicate list is combined
type FilterMode string

const (
	FilterModeAll FilterMode = "all" // AND
	FilterModeAny FilterMode = "any" // OR
)

// Valid reports whether m is all or any
func (m FilterMode) Valid() bool {
	return m == FilterModeAll || m == FilterModeAny
}

// OrDefault returns m, or FilterModeAll when m is unset or unknown
func (m FilterMode) OrDefault() FilterMode {
	if m.Valid() {
		return m
	}
	return FilterModeAll
}

// ServerTableFilter is the canonical predicate handed to a query executor.
// Value is a string, a float64 or a []string depending on the operator.
type ServerTableFilter struct {
	Field    string         `json:"field" yaml:"field"`
	Operator FilterOperator `json:"operator" yaml:"operator"`
	Value    any            `json:"value" yaml:"value"`
}

// ViewFilterSet is a predicate list together with its combination mode
type ViewFilterSet struct {
	Filters    []ServerTableFilter `json:"filters" yaml:"filters"`
	FilterMode FilterMode          `json:"filterMode" yaml:"filter_mode"`
}

// Option is a value/label pair offered by select-like filters
type Option struct {
	Value string `json:"value" yaml:"value" validate:"required"`
	Label string `json:"label" yaml:"label"`
}

// FilterDefinition describes one filterable column of a table
type FilterDefinition struct {
	ColumnKey  string     `json:"columnKey" yaml:"column_key" validate:"required"`
	Label      string     `json:"label,omitempty" yaml:"label"`
	FilterType FilterType `json:"filterType" yaml:"type" validate:"required"`

	// Static options for select and multiselect columns
	Options []Option `json:"options,omitempty" yaml:"options" validate:"dive"`

	// Remote options. ResolveEndpoint contains an :id placeholder.
	OptionsEndpoint string `json:"optionsEndpoint,omitempty" yaml:"options_endpoint"`
	SearchEndpoint  string `json:"searchEndpoint,omitempty" yaml:"search_endpoint"`
	ResolveEndpoint string `json:"resolveEndpoint,omitempty" yaml:"resolve_endpoint"`
	ItemsPath       string `json:"itemsPath,omitempty" yaml:"items_path"`
	ValueField      string `json:"valueField,omitempty" yaml:"value_field"`
	LabelField      string `json:"labelField,omitempty" yaml:"label_field"`

	// EntityType delegates search and resolve to an entity definition
	EntityType string `json:"entityType,omitempty" yaml:"entity_type"`
}

// EntityDefinition describes how a reference column is resolved to a label
type EntityDefinition struct {
	ResolveEndpoint string `json:"resolveEndpoint" yaml:"resolve_endpoint" validate:"required"`
	SearchEndpoint  string `json:"searchEndpoint,omitempty" yaml:"search_endpoint"`
	LabelField      string `json:"labelField" yaml:"label_field"`
	ValueField      string `json:"valueField" yaml:"value_field"`
	ItemsPath       string `json:"itemsPath,omitempty" yaml:"items_path"`
	DetailPath      string `json:"detailPath,omitempty" yaml:"detail_path"`

	// RowLabelFields maps a column key to a row field that already carries the label
	RowLabelFields map[string]string `json:"rowLabelFields,omitempty" yaml:"row_label_fields"`
}
