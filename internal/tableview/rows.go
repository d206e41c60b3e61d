package tableview

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// RowGroup is one group of rows produced by GroupRows
type RowGroup struct {
	Key       string
	Rows      []models.Row
	Collapsed bool
}

// PageSlice is one client-side page of rows
type PageSlice struct {
	Rows       []models.Row
	Page       int
	PageSize   int
	TotalRows  int
	TotalPages int
}

// SortRows returns rows ordered by the current sort keys. The sort is stable and
// the input is not modified.
func (m *Manager) SortRows(rows []models.Row) []models.Row {
	return SortRows(rows, m.Sorting())
}

// GroupRows splits rows by the current grouping. It returns nil when no grouping is set.
func (m *Manager) GroupRows(rows []models.Row) []RowGroup {
	return GroupRows(rows, m.GroupBy())
}

// PageRows slices the current page out of rows
func (m *Manager) PageRows(rows []models.Row) PageSlice {
	m.mu.Lock()
	page, size := m.page, m.pageSize
	m.mu.Unlock()
	return PageRows(rows, page, size)
}

// SortRows orders rows by sorting, comparing numbers numerically and everything
// else as case-insensitive text. Missing values sort first in ascending order.
func SortRows(rows []models.Row, sorting []models.SortSpec) []models.Row {
	out := make([]models.Row, len(rows))
	copy(out, rows)
	if len(sorting) == 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, key := range sorting {
			c := compareValues(out[i][key.Field], out[j][key.Field])
			if c == 0 {
				continue
			}
			if key.Direction == models.SortDesc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out
}

// GroupRows splits rows by groupBy.Field. Groups listed in SortOrder.Values come
// first in list order; the rest follow in first-seen order. With a ranking
// function groups are ordered by ascending rank, ties keeping first-seen order.
func GroupRows(rows []models.Row, groupBy *GroupBy) []RowGroup {
	if groupBy == nil || groupBy.Field == "" {
		return nil
	}

	var groups []RowGroup
	index := make(map[string]int)
	for _, row := range rows {
		key := GroupKey(row[groupBy.Field])
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, RowGroup{Key: key, Collapsed: groupBy.DefaultCollapsed})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	switch {
	case len(groupBy.SortOrder.Values) > 0:
		position := make(map[string]int, len(groupBy.SortOrder.Values))
		for i, v := range groupBy.SortOrder.Values {
			if _, dup := position[v]; !dup {
				position[v] = i
			}
		}
		rank := func(g RowGroup) int {
			if p, ok := position[g.Key]; ok {
				return p
			}
			return len(position)
		}
		sort.SliceStable(groups, func(i, j int) bool {
			return rank(groups[i]) < rank(groups[j])
		})
	case groupBy.SortOrder.Rank != nil:
		ranks := make([]float64, len(groups))
		for i, g := range groups {
			ranks[i] = groupBy.SortOrder.Rank(g.Key, g.Rows)
		}
		order := make([]int, len(groups))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return ranks[order[i]] < ranks[order[j]]
		})
		sorted := make([]RowGroup, len(groups))
		for i, idx := range order {
			sorted[i] = groups[idx]
		}
		groups = sorted
	}

	return groups
}

// PageRows returns page (zero-based) of rows. A page past the end is clamped to
// the last page.
func PageRows(rows []models.Row, page, pageSize int) PageSlice {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(rows)
	totalPages := (total + pageSize - 1) / pageSize
	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	start := page * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	return PageSlice{
		Rows:       rows[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalRows:  total,
		TotalPages: totalPages,
	}
}

// GroupKey renders a cell value as a group key; nil becomes the empty key
func GroupKey(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	case [16]byte:
		return uuid.UUID(val).String()
	default:
		return fmt.Sprint(val)
	}
}

func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(strings.ToLower(GroupKey(a)), strings.ToLower(GroupKey(b)))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case pgtype.Numeric:
		f, err := n.Float64Value()
		return f.Float64, err == nil && f.Valid
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
