package tableview

import "github.com/rebeliceyang/lazygrid/internal/models"

// Query is everything a server-side executor needs to fetch the current page
type Query struct {
	TableID    string
	Filters    []models.ServerTableFilter
	FilterMode models.FilterMode
	Sorting    []models.SortSpec
	GroupBy    string
	Limit      int
	Offset     int
}

// Query snapshots the current state for server-side execution
func (m *Manager) Query() Query {
	m.mu.Lock()
	defer m.mu.Unlock()

	effective := m.effectiveLocked()
	q := Query{
		TableID:    m.tableID,
		Filters:    effective.Filters,
		FilterMode: effective.FilterMode.OrDefault(),
		Sorting:    cloneSorting(m.sorting),
		Limit:      m.pageSize,
		Offset:     m.page * m.pageSize,
	}
	if m.groupBy != nil {
		q.GroupBy = m.groupBy.Field
	}
	return q
}
