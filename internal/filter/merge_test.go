package filter

import (
	"testing"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMergeIdentityWithoutQuickFilters(t *testing.T) {
	view := []models.ServerTableFilter{
		{Field: "status", Operator: models.OpEquals, Value: "open"},
		{Field: "priority", Operator: models.OpIn, Value: []string{"high"}},
	}

	for _, mode := range []models.FilterMode{models.FilterModeAll, models.FilterModeAny} {
		got := Merge(view, mode, nil)
		assert.Equal(t, view, got.Filters)
		assert.Equal(t, mode, got.FilterMode)

		got = Merge(view, mode, []models.ServerTableFilter{})
		assert.Equal(t, view, got.Filters)
		assert.Equal(t, mode, got.FilterMode)
	}

	got := Merge(nil, models.FilterModeAny, nil)
	assert.Nil(t, got.Filters)
	assert.Equal(t, models.FilterModeAny, got.FilterMode)
}

func TestMergeQuickFilterOverridesView(t *testing.T) {
	got := Merge(
		[]models.ServerTableFilter{{Field: "status", Operator: models.OpEquals, Value: "open"}},
		models.FilterModeAny,
		[]models.ServerTableFilter{{Field: "status", Operator: models.OpEquals, Value: "closed"}},
	)

	assert.Equal(t, models.ViewFilterSet{
		Filters:    []models.ServerTableFilter{{Field: "status", Operator: models.OpEquals, Value: "closed"}},
		FilterMode: models.FilterModeAll,
	}, got)
}

func TestMergeKeepsViewOnlyFieldsFirst(t *testing.T) {
	view := []models.ServerTableFilter{
		{Field: "a", Operator: models.OpEquals, Value: "1"},
		{Field: "period", Operator: models.OpDateAfter, Value: "2023-01-01"},
		{Field: "period", Operator: models.OpDateBefore, Value: "2023-12-31"},
		{Field: "b", Operator: models.OpContains, Value: "x"},
	}
	quick := []models.ServerTableFilter{
		{Field: "period", Operator: models.OpDateAfter, Value: "2024-01-01"},
		{Field: "c", Operator: models.OpIsTrue, Value: ""},
	}

	got := Merge(view, models.FilterModeAll, quick)

	assert.Equal(t, []models.ServerTableFilter{
		{Field: "a", Operator: models.OpEquals, Value: "1"},
		{Field: "b", Operator: models.OpContains, Value: "x"},
		{Field: "period", Operator: models.OpDateAfter, Value: "2024-01-01"},
		{Field: "c", Operator: models.OpIsTrue, Value: ""},
	}, got.Filters)
	assert.Equal(t, models.FilterModeAll, got.FilterMode)
}

func TestMergeForcesAllMode(t *testing.T) {
	got := Merge(
		[]models.ServerTableFilter{{Field: "a", Operator: models.OpEquals, Value: "1"}},
		models.FilterModeAny,
		[]models.ServerTableFilter{{Field: "b", Operator: models.OpEquals, Value: "2"}},
	)
	assert.Equal(t, models.FilterModeAll, got.FilterMode)
	assert.Len(t, got.Filters, 2)
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	view := []models.ServerTableFilter{
		{Field: "a", Operator: models.OpEquals, Value: "1"},
		{Field: "b", Operator: models.OpEquals, Value: "2"},
	}
	quick := []models.ServerTableFilter{{Field: "a", Operator: models.OpEquals, Value: "3"}}

	_ = Merge(view, models.FilterModeAny, quick)

	assert.Equal(t, "1", view[0].Value)
	assert.Equal(t, "b", view[1].Field)
	assert.Len(t, quick, 1)
}

func TestMergeSet(t *testing.T) {
	set := models.ViewFilterSet{
		Filters:    []models.ServerTableFilter{{Field: "a", Operator: models.OpEquals, Value: "1"}},
		FilterMode: models.FilterModeAny,
	}
	assert.Equal(t, set, MergeSet(set, nil))
}

func TestPackDateRangeRoundTrip(t *testing.T) {
	from, to := UnpackDateRange(PackDateRange("2024-01-01", "2024-01-31"))
	assert.Equal(t, "2024-01-01", from)
	assert.Equal(t, "2024-01-31", to)

	from, to = UnpackDateRange(PackDateRange("", "2024-01-31"))
	assert.Equal(t, "", from)
	assert.Equal(t, "2024-01-31", to)
}
