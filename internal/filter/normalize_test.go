package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(map[string][]models.FilterDefinition{
		"t": {
			{ColumnKey: "title", FilterType: models.FilterTypeString},
			{ColumnKey: "amount", FilterType: models.FilterTypeNumber},
			{ColumnKey: "active", FilterType: models.FilterTypeBoolean},
			{ColumnKey: "day", FilterType: models.FilterTypeDate},
			{ColumnKey: "period", FilterType: models.FilterTypeDateRange},
			{ColumnKey: "status", FilterType: models.FilterTypeSelect},
			{ColumnKey: "labels", FilterType: models.FilterTypeMultiSelect},
			{ColumnKey: "owner", FilterType: models.FilterTypeAutocomplete},
		},
	}, nil)
	require.NoError(t, err)
	return reg
}

func values(pairs ...any) models.GlobalFilterValues {
	out := models.NewGlobalFilterValues()
	for i := 0; i+1 < len(pairs); i += 2 {
		switch v := pairs[i+1].(type) {
		case string:
			out.Set(pairs[i].(string), models.StringValue(v))
		case []string:
			out.Set(pairs[i].(string), models.ListValue(v...))
		}
	}
	return out
}

func TestNormalizeMultiselectEmptyArray(t *testing.T) {
	got := Normalize(testRegistry(t), "t", values("labels", []string{}))
	assert.Empty(t, got)
}

func TestNormalizeMultiselectTrimsAndDropsEmpty(t *testing.T) {
	got := Normalize(testRegistry(t), "t", values("labels", []string{" a ", "", "  ", "b"}))
	want := []models.ServerTableFilter{{Field: "labels", Operator: models.OpIn, Value: []string{"a", "b"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected predicates (-want +got):\n%s", diff)
	}
}

func TestNormalizeMultiselectOnlyBlankItems(t *testing.T) {
	got := Normalize(testRegistry(t), "t", values("labels", []string{" ", ""}))
	assert.Empty(t, got)
}

func TestNormalizeMultiselectScalar(t *testing.T) {
	got := Normalize(testRegistry(t), "t", values("labels", "x"))
	require.Len(t, got, 1)
	assert.Equal(t, []string{"x"}, got[0].Value)
}

func TestNormalizeDateRange(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name string
		raw  string
		want []models.ServerTableFilter
	}{
		{
			name: "both sides",
			raw:  "2024-01-01|2024-01-31",
			want: []models.ServerTableFilter{
				{Field: "period", Operator: models.OpDateAfter, Value: "2024-01-01"},
				{Field: "period", Operator: models.OpDateBefore, Value: "2024-01-31"},
			},
		},
		{
			name: "only to",
			raw:  "|2024-01-31",
			want: []models.ServerTableFilter{
				{Field: "period", Operator: models.OpDateBefore, Value: "2024-01-31"},
			},
		},
		{
			name: "only from",
			raw:  "2024-01-01|",
			want: []models.ServerTableFilter{
				{Field: "period", Operator: models.OpDateAfter, Value: "2024-01-01"},
			},
		},
		{
			name: "separator only",
			raw:  "|",
			want: []models.ServerTableFilter{},
		},
		{
			name: "no separator",
			raw:  "2024-01-01",
			want: []models.ServerTableFilter{
				{Field: "period", Operator: models.OpDateAfter, Value: "2024-01-01"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(reg, "t", values("period", tt.raw))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("unexpected predicates (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeBoolean(t *testing.T) {
	reg := testRegistry(t)

	got := Normalize(reg, "t", values("active", "true"))
	assert.Equal(t, []models.ServerTableFilter{{Field: "active", Operator: models.OpIsTrue, Value: ""}}, got)

	got = Normalize(reg, "t", values("active", []string{" false "}))
	assert.Equal(t, []models.ServerTableFilter{{Field: "active", Operator: models.OpIsFalse, Value: ""}}, got)

	assert.Empty(t, Normalize(reg, "t", values("active", "maybe")))
	assert.Empty(t, Normalize(reg, "t", values("active", "TRUE")))
}

func TestNormalizeNumber(t *testing.T) {
	reg := testRegistry(t)

	got := Normalize(reg, "t", values("amount", "42"))
	require.Len(t, got, 1)
	assert.Equal(t, models.OpEquals, got[0].Operator)
	assert.Equal(t, float64(42), got[0].Value)

	got = Normalize(reg, "t", values("amount", "forty-two"))
	require.Len(t, got, 1)
	assert.Equal(t, "forty-two", got[0].Value)

	got = Normalize(reg, "t", values("amount", "Infinity"))
	require.Len(t, got, 1)
	assert.Equal(t, "Infinity", got[0].Value)

	for _, hex := range []string{"0x1p4", "-0X10", "0x1F"} {
		got = Normalize(reg, "t", values("amount", hex))
		require.Len(t, got, 1)
		assert.Equal(t, hex, got[0].Value)
	}

	got = Normalize(reg, "t", values("amount", []string{" 3.5 ", "9"}))
	require.Len(t, got, 1)
	assert.Equal(t, 3.5, got[0].Value)

	assert.Empty(t, Normalize(reg, "t", values("amount", "   ")))
}

func TestNormalizeSelectAndAutocompleteTakeFirst(t *testing.T) {
	reg := testRegistry(t)

	got := Normalize(reg, "t", values("status", []string{" open ", "closed"}, "owner", "u1"))
	want := []models.ServerTableFilter{
		{Field: "status", Operator: models.OpEquals, Value: "open"},
		{Field: "owner", Operator: models.OpEquals, Value: "u1"},
	}
	assert.Equal(t, want, got)
}

func TestNormalizeDate(t *testing.T) {
	got := Normalize(testRegistry(t), "t", values("day", " 2024-02-29 "))
	assert.Equal(t, []models.ServerTableFilter{{Field: "day", Operator: models.OpDateEquals, Value: "2024-02-29"}}, got)
}

func TestNormalizeDefaultInference(t *testing.T) {
	reg := testRegistry(t)

	got := Normalize(reg, "t", values("unknown", []string{"a", "b"}))
	assert.Equal(t, []models.ServerTableFilter{{Field: "unknown", Operator: models.OpIn, Value: []string{"a", "b"}}}, got)

	got = Normalize(reg, "t", values("unknown", "hello"))
	assert.Equal(t, []models.ServerTableFilter{{Field: "unknown", Operator: models.OpContains, Value: "hello"}}, got)

	got = Normalize(reg, "t", values("title", "  hello  "))
	assert.Equal(t, []models.ServerTableFilter{{Field: "title", Operator: models.OpContains, Value: "hello"}}, got)
}

func TestNormalizeMissingTableUsesDefaultInference(t *testing.T) {
	got := Normalize(testRegistry(t), "missing", values("amount", "42"))
	assert.Equal(t, []models.ServerTableFilter{{Field: "amount", Operator: models.OpContains, Value: "42"}}, got)

	got = Normalize(nil, "", values("amount", "42"))
	assert.Equal(t, models.OpContains, got[0].Operator)
}

func TestNormalizeSkipsEmpty(t *testing.T) {
	got := Normalize(testRegistry(t), "t", values("title", "", "labels", []string{}, "unknown", []string{}))
	assert.Empty(t, got)
}

func TestNormalizePreservesInsertionOrder(t *testing.T) {
	got := Normalize(testRegistry(t), "t", values("z", "1", "a", "2", "m", "3"))
	require.Len(t, got, 3)
	assert.Equal(t, "z", got[0].Field)
	assert.Equal(t, "a", got[1].Field)
	assert.Equal(t, "m", got[2].Field)
}

func TestNormalizeIsPure(t *testing.T) {
	reg := testRegistry(t)
	input := values("title", "x", "labels", []string{"a"}, "period", "2024-01-01|2024-02-01", "amount", "7")

	first := Normalize(reg, "t", input)
	second := Normalize(reg, "t", input)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("normalization is not deterministic (-first +second):\n%s", diff)
	}

	// mutating the output must not leak into the input
	first[1].Value.([]string)[0] = "mutated"
	v, _ := input.Get("labels")
	assert.Equal(t, []string{"a"}, v.Items())
}

func TestNormalizeCRMContactsScenario(t *testing.T) {
	got := Normalize(registry.Default(), "crm.contacts", values("name", "Jane", "companyId", []string{"c1"}))
	want := []models.ServerTableFilter{
		{Field: "name", Operator: models.OpContains, Value: "Jane"},
		{Field: "companyId", Operator: models.OpEquals, Value: "c1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected predicates (-want +got):\n%s", diff)
	}
}

func TestGetOperatorsForTypeMatchesNormalizer(t *testing.T) {
	for _, ft := range models.FilterTypes {
		for _, op := range GetOperatorsForType(ft) {
			assert.True(t, IsKnownOperator(op), "type %s produced unknown operator %s", ft, op)
		}
	}
	assert.False(t, IsKnownOperator("like"))
}
