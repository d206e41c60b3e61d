package tableview

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(groups []RowGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key
	}
	return out
}

func TestSortRows(t *testing.T) {
	rows := []models.Row{
		{"id": 1, "name": "bravo", "score": 10.0},
		{"id": 2, "name": "Alpha", "score": 2.0},
		{"id": 3, "name": nil, "score": 10.0},
		{"id": 4, "name": "charlie", "score": "9"},
	}

	byName := SortRows(rows, []models.SortSpec{{Field: "name", Direction: models.SortAsc}})
	assert.Equal(t, []any{3, 2, 1, 4}, ids(byName))

	byScore := SortRows(rows, []models.SortSpec{
		{Field: "score", Direction: models.SortDesc},
		{Field: "id", Direction: models.SortAsc},
	})
	assert.Equal(t, []any{1, 3, 4, 2}, ids(byScore))

	// input untouched
	assert.Equal(t, []any{1, 2, 3, 4}, ids(rows))
}

func TestSortRowsStableAndTimes(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.Row{
		{"id": 1, "at": day.AddDate(0, 0, 2)},
		{"id": 2, "at": day},
		{"id": 3, "at": day},
	}

	sorted := SortRows(rows, []models.SortSpec{{Field: "at", Direction: models.SortAsc}})
	assert.Equal(t, []any{2, 3, 1}, ids(sorted))

	unsorted := SortRows(rows, nil)
	assert.Equal(t, []any{1, 2, 3}, ids(unsorted))
}

func TestSortRowsNumericKinds(t *testing.T) {
	rows := []models.Row{
		{"id": 1, "n": int16(10)},
		{"id": 2, "n": int16(9)},
		{"id": 3, "n": uint32(100)},
		{"id": 4, "n": int8(2)},
		{"id": 5, "n": json.Number("50")},
		{"id": 6, "n": pgtype.Numeric{Int: big.NewInt(15), Exp: -1, Valid: true}},
		{"id": 7, "n": uint64(11)},
	}

	sorted := SortRows(rows, []models.SortSpec{{Field: "n", Direction: models.SortAsc}})
	assert.Equal(t, []any{6, 4, 2, 1, 7, 5, 3}, ids(sorted))
}

func TestGroupRowsUUIDKeys(t *testing.T) {
	owner := [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}
	rows := []models.Row{{"id": 1, "ownerId": owner}, {"id": 2, "ownerId": owner}}

	groups := GroupRows(rows, &GroupBy{Field: "ownerId"})
	require.Len(t, groups, 1)
	assert.Equal(t, "12345678-9abc-def0-1234-56789abcdef0", groups[0].Key)
	assert.Len(t, groups[0].Rows, 2)
}

func ids(rows []models.Row) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r["id"]
	}
	return out
}

func TestGroupRowsFirstSeenOrder(t *testing.T) {
	rows := []models.Row{
		{"status": "closed"}, {"status": "open"}, {"status": nil}, {"status": "closed"},
	}

	groups := GroupRows(rows, &GroupBy{Field: "status", DefaultCollapsed: true})

	assert.Equal(t, []string{"closed", "open", ""}, keys(groups))
	assert.Len(t, groups[0].Rows, 2)
	for _, g := range groups {
		assert.True(t, g.Collapsed)
	}
}

func TestGroupRowsFixedOrder(t *testing.T) {
	rows := []models.Row{
		{"status": "closed"}, {"status": "weird"}, {"status": "pending"}, {"status": "open"},
	}

	groups := GroupRows(rows, &GroupBy{
		Field:     "status",
		SortOrder: GroupSortOrder{Values: []string{"open", "pending", "closed"}},
	})

	assert.Equal(t, []string{"open", "pending", "closed", "weird"}, keys(groups))
}

func TestGroupRowsFixedOrderWinsOverRank(t *testing.T) {
	rows := []models.Row{{"status": "b"}, {"status": "a"}}

	groups := GroupRows(rows, &GroupBy{
		Field: "status",
		SortOrder: GroupSortOrder{
			Values: []string{"a", "b"},
			Rank:   func(string, []models.Row) float64 { panic("rank must not be called") },
		},
	})

	assert.Equal(t, []string{"a", "b"}, keys(groups))
}

func TestGroupRowsRankTiesKeepFirstSeen(t *testing.T) {
	rows := []models.Row{
		{"owner": "carol"}, {"owner": "alice"}, {"owner": "bob"}, {"owner": "alice"}, {"owner": "dave"},
	}

	// larger groups first, ties keep first-seen order
	groups := GroupRows(rows, &GroupBy{
		Field: "owner",
		SortOrder: GroupSortOrder{Rank: func(_ string, rows []models.Row) float64 {
			return -float64(len(rows))
		}},
	})

	assert.Equal(t, []string{"alice", "carol", "bob", "dave"}, keys(groups))
}

func TestGroupRowsWithoutGrouping(t *testing.T) {
	assert.Nil(t, GroupRows([]models.Row{{"a": 1}}, nil))
	assert.Nil(t, GroupRows([]models.Row{{"a": 1}}, &GroupBy{}))
}

func TestPageRows(t *testing.T) {
	rows := make([]models.Row, 7)
	for i := range rows {
		rows[i] = models.Row{"id": i}
	}

	tests := []struct {
		name     string
		page     int
		size     int
		wantIDs  []any
		wantPage int
	}{
		{"first page", 0, 3, []any{0, 1, 2}, 0},
		{"last partial page", 2, 3, []any{6}, 2},
		{"past the end clamps", 9, 3, []any{6}, 2},
		{"negative clamps", -1, 3, []any{0, 1, 2}, 0},
		{"zero size uses default", 0, 0, []any{0, 1, 2, 3, 4, 5, 6}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageRows(rows, tt.page, tt.size)
			assert.Equal(t, tt.wantIDs, ids(got.Rows))
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, 7, got.TotalRows)
		})
	}
}

func TestPageRowsEmpty(t *testing.T) {
	got := PageRows(nil, 3, 10)
	require.Empty(t, got.Rows)
	assert.Equal(t, 0, got.Page)
	assert.Equal(t, 0, got.TotalPages)
}

func TestGroupByRoundTripsThroughSpec(t *testing.T) {
	spec := &models.GroupSpec{Field: "status", Order: []string{"open"}, DefaultCollapsed: true}
	g := GroupByFromSpec(spec)
	require.NotNil(t, g)

	spec.Order[0] = "mutated"
	assert.Equal(t, []string{"open"}, g.SortOrder.Values)

	g.SortOrder.Rank = func(string, []models.Row) float64 { return 0 }
	assert.Equal(t, &models.GroupSpec{Field: "status", Order: []string{"open"}, DefaultCollapsed: true}, g.Spec())

	assert.Nil(t, GroupByFromSpec(nil))
	assert.Nil(t, (*GroupBy)(nil).Spec())
}

func TestManagerRowHelpersUseState(t *testing.T) {
	m := newTestManager(t)
	m.SetSorting([]models.SortSpec{{Field: "id", Direction: models.SortDesc}})
	m.SetGroupBy(&GroupBy{Field: "status"})

	rows := []models.Row{{"id": 1, "status": "a"}, {"id": 2, "status": "b"}}

	assert.Equal(t, []any{2, 1}, ids(m.SortRows(rows)))
	assert.Equal(t, []string{"a", "b"}, keys(m.GroupRows(rows)))
	assert.Equal(t, 1, m.PageRows(rows).TotalPages)
}
