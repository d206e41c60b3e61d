package filter

import "github.com/rebeliceyang/lazygrid/internal/models"

// GetOperatorsForType returns the operators a quick filter of the given type can produce.
// Unknown types use default inference, which yields contains or in.
func GetOperatorsForType(ft models.FilterType) []models.FilterOperator {
	switch ft {
	case models.FilterTypeDateRange:
		return []models.FilterOperator{models.OpDateAfter, models.OpDateBefore}
	case models.FilterTypeBoolean:
		return []models.FilterOperator{models.OpIsTrue, models.OpIsFalse}
	case models.FilterTypeMultiSelect:
		return []models.FilterOperator{models.OpIn}
	case models.FilterTypeSelect, models.FilterTypeAutocomplete, models.FilterTypeNumber:
		return []models.FilterOperator{models.OpEquals}
	case models.FilterTypeDate:
		return []models.FilterOperator{models.OpDateEquals}
	default:
		return []models.FilterOperator{models.OpContains, models.OpIn}
	}
}

// IsKnownOperator reports whether op belongs to the closed operator set
func IsKnownOperator(op models.FilterOperator) bool {
	switch op {
	case models.OpContains, models.OpEquals, models.OpIn, models.OpIsTrue, models.OpIsFalse,
		models.OpDateEquals, models.OpDateAfter, models.OpDateBefore:
		return true
	}
	return false
}
