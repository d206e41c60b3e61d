package tableview

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/logger"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/registry"
)

// DefaultPageSize is used when Options.PageSize is zero
const DefaultPageSize = 25

var (
	ErrMissingTableID  = errors.New("table id is required")
	ErrMissingRegistry = errors.New("filter registry is required")
	ErrInvalidPageSize = errors.New("page size must be positive")
)

// Options configures a Manager
type Options struct {
	TableID  string
	Registry *registry.Registry
	Logger   *logger.Logger
	PageSize int

	// OnPageSizeChange hands page size changes to an external pager. Without it
	// the page size only drives client-side slicing.
	OnPageSizeChange func(pageSize int)
}

// Manager owns the view state of one table: the active view, its filters and mode,
// sorting, grouping, quick filters and paging.
type Manager struct {
	mu sync.Mutex

	tableID          string
	normalizer       *filter.Normalizer
	log              *logger.Logger
	onPageSizeChange func(int)

	view        *models.View
	viewFilters []models.ServerTableFilter
	viewMode    models.FilterMode
	sorting     []models.SortSpec
	groupBy     *GroupBy
	quick       models.GlobalFilterValues
	pageSize    int
	page        int

	viewListeners     listenerSet[*models.View]
	filterListeners   listenerSet[models.ViewFilterSet]
	sortingListeners  listenerSet[[]models.SortSpec]
	groupByListeners  listenerSet[*GroupBy]
	pageSizeListeners listenerSet[int]
}

// NewManager validates opts and returns a manager showing the default view
func NewManager(opts Options) (*Manager, error) {
	if opts.TableID == "" {
		return nil, ErrMissingTableID
	}
	if opts.Registry == nil {
		return nil, ErrMissingRegistry
	}
	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}

	log := opts.Logger.With("table", opts.TableID)
	if !opts.Registry.HasTable(opts.TableID) {
		log.Debug("no filter definitions registered, using default inference")
	}

	return &Manager{
		tableID:          opts.TableID,
		normalizer:       filter.NewNormalizer(opts.Registry),
		log:              log,
		onPageSizeChange: opts.OnPageSizeChange,
		viewMode:         models.FilterModeAll,
		quick:            models.NewGlobalFilterValues(),
		pageSize:         pageSize,
	}, nil
}

// TableID returns the table this manager serves
func (m *Manager) TableID() string {
	return m.tableID
}

// SelectView replaces sorting, grouping and filters with the view's stored
// definition and clears the quick filters. nil selects the default view.
func (m *Manager) SelectView(view *models.View) {
	m.mu.Lock()

	var pending []func()
	if view == nil {
		m.view = nil
		m.viewFilters = nil
		m.viewMode = models.FilterModeAll
		m.sorting = nil
		m.groupBy = nil
	} else {
		if view.TableID != "" && view.TableID != m.tableID {
			m.log.WithFields(map[string]any{"view": view.Name, "view_table": view.TableID}).Warn("view belongs to another table")
		}
		v := cloneView(*view)
		m.view = &v
		m.viewFilters = cloneFilters(v.Filters)
		m.viewMode = v.FilterMode.OrDefault()
		m.sorting = cloneSorting(v.Sorting)
		m.groupBy = GroupByFromSpec(v.GroupBy)
		if v.PageSize > 0 && v.PageSize != m.pageSize {
			pending = append(pending, m.setPageSizeLocked(v.PageSize)...)
		}
	}
	m.quick = models.NewGlobalFilterValues()
	m.page = 0

	var selected *models.View
	if m.view != nil {
		v := cloneView(*m.view)
		selected = &v
	}
	pending = append([]func(){
		m.viewListeners.notify(selected),
		m.filterListeners.notify(m.effectiveLocked()),
		m.sortingListeners.notify(cloneSorting(m.sorting)),
		m.groupByListeners.notify(m.groupBy.clone()),
	}, pending...)
	m.mu.Unlock()

	if selected != nil {
		m.log.With("view", selected.Name).Debug("view selected")
	} else {
		m.log.Debug("default view selected")
	}
	run(pending)
}

// ActiveView returns a copy of the selected view, or nil for the default view
func (m *Manager) ActiveView() *models.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.view == nil {
		return nil
	}
	v := cloneView(*m.view)
	return &v
}

// SetQuickFilter sets one quick filter value
func (m *Manager) SetQuickFilter(columnKey string, value models.FilterValue) {
	m.updateQuick(func(q *models.GlobalFilterValues) {
		q.Set(columnKey, value)
	})
}

// ClearQuickFilter removes one quick filter
func (m *Manager) ClearQuickFilter(columnKey string) {
	m.updateQuick(func(q *models.GlobalFilterValues) {
		q.Delete(columnKey)
	})
}

// SetQuickFilters replaces all quick filter values
func (m *Manager) SetQuickFilters(values models.GlobalFilterValues) {
	m.updateQuick(func(q *models.GlobalFilterValues) {
		*q = values.Clone()
	})
}

// ClearQuickFilters removes every quick filter
func (m *Manager) ClearQuickFilters() {
	m.updateQuick(func(q *models.GlobalFilterValues) {
		*q = models.NewGlobalFilterValues()
	})
}

func (m *Manager) updateQuick(edit func(q *models.GlobalFilterValues)) {
	m.mu.Lock()
	edit(&m.quick)
	m.page = 0
	notify := m.filterListeners.notify(m.effectiveLocked())
	m.mu.Unlock()

	notify()
}

// QuickFilters returns a copy of the raw quick filter values
func (m *Manager) QuickFilters() models.GlobalFilterValues {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quick.Clone()
}

// ViewFilters returns the active view's own predicates and mode
func (m *Manager) ViewFilters() models.ViewFilterSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.ViewFilterSet{Filters: cloneFilters(m.viewFilters), FilterMode: m.viewMode}
}

// EffectiveFilters merges the view filters with the normalized quick filters.
// It is recomputed on every call.
func (m *Manager) EffectiveFilters() models.ViewFilterSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.effectiveLocked()
}

func (m *Manager) effectiveLocked() models.ViewFilterSet {
	quick := m.normalizer.Normalize(m.tableID, m.quick)
	return filter.Merge(cloneFilters(m.viewFilters), m.viewMode, quick)
}

// SetSorting replaces the sort keys
func (m *Manager) SetSorting(sorting []models.SortSpec) {
	m.mu.Lock()
	m.sorting = cloneSorting(sorting)
	notify := m.sortingListeners.notify(cloneSorting(m.sorting))
	m.mu.Unlock()

	notify()
}

// ToggleSort cycles field through ascending, descending and unsorted. With
// additive the other sort keys are kept; otherwise field becomes the only key.
func (m *Manager) ToggleSort(field string, additive bool) {
	m.mu.Lock()

	idx := -1
	for i, s := range m.sorting {
		if s.Field == field {
			idx = i
			break
		}
	}

	var next []models.SortSpec
	if additive {
		next = cloneSorting(m.sorting)
	}
	switch {
	case idx == -1:
		next = append(next, models.SortSpec{Field: field, Direction: models.SortAsc})
	case m.sorting[idx].Direction != models.SortDesc:
		if additive {
			next[idx].Direction = models.SortDesc
		} else {
			next = []models.SortSpec{{Field: field, Direction: models.SortDesc}}
		}
	default:
		if additive {
			next = append(next[:idx], next[idx+1:]...)
		}
	}

	m.sorting = next
	notify := m.sortingListeners.notify(cloneSorting(m.sorting))
	m.mu.Unlock()

	notify()
}

// Sorting returns the current sort keys
func (m *Manager) Sorting() []models.SortSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSorting(m.sorting)
}

// SetGroupBy replaces the grouping; nil removes it
func (m *Manager) SetGroupBy(groupBy *GroupBy) {
	m.mu.Lock()
	if groupBy != nil && groupBy.Field == "" {
		groupBy = nil
	}
	m.groupBy = groupBy.clone()
	notify := m.groupByListeners.notify(m.groupBy.clone())
	m.mu.Unlock()

	notify()
}

// GroupBy returns the current grouping, or nil
func (m *Manager) GroupBy() *GroupBy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.groupBy.clone()
}

// SetPageSize changes the page size and returns to the first page.
// Non-positive sizes are ignored.
func (m *Manager) SetPageSize(pageSize int) {
	if pageSize <= 0 {
		m.log.With("page_size", pageSize).Warn("ignoring non-positive page size")
		return
	}
	m.mu.Lock()
	pending := m.setPageSizeLocked(pageSize)
	m.mu.Unlock()

	run(pending)
}

func (m *Manager) setPageSizeLocked(pageSize int) []func() {
	m.pageSize = pageSize
	m.page = 0
	pending := []func(){m.pageSizeListeners.notify(pageSize)}
	if m.onPageSizeChange != nil {
		pager := m.onPageSizeChange
		pending = append(pending, func() { pager(pageSize) })
	}
	return pending
}

// PageSize returns the page size
func (m *Manager) PageSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageSize
}

// SetPage moves to a zero-based page
func (m *Manager) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	m.mu.Lock()
	m.page = page
	m.mu.Unlock()
}

// Page returns the zero-based current page
func (m *Manager) Page() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page
}

// OnViewChanged registers fn for view selection. fn receives nil for the default view.
func (m *Manager) OnViewChanged(fn func(view *models.View)) Subscription {
	return subscribe(m, &m.viewListeners, fn)
}

// OnFiltersChanged registers fn for changes of the effective filters
func (m *Manager) OnFiltersChanged(fn func(filters models.ViewFilterSet)) Subscription {
	return subscribe(m, &m.filterListeners, fn)
}

// OnSortingChanged registers fn for sort changes
func (m *Manager) OnSortingChanged(fn func(sorting []models.SortSpec)) Subscription {
	return subscribe(m, &m.sortingListeners, fn)
}

// OnGroupByChanged registers fn for grouping changes. fn receives nil when grouping is removed.
func (m *Manager) OnGroupByChanged(fn func(groupBy *GroupBy)) Subscription {
	return subscribe(m, &m.groupByListeners, fn)
}

// OnPageSizeChanged registers fn for page size changes
func (m *Manager) OnPageSizeChanged(fn func(pageSize int)) Subscription {
	return subscribe(m, &m.pageSizeListeners, fn)
}

func subscribe[T any](m *Manager, set *listenerSet[T], fn func(T)) Subscription {
	if fn == nil {
		return &subscription{cancel: func() {}}
	}
	m.mu.Lock()
	id := set.add(fn)
	m.mu.Unlock()

	return &subscription{cancel: func() {
		m.mu.Lock()
		set.remove(id)
		m.mu.Unlock()
	}}
}

// SnapshotView captures the current state as a persistable view named name.
// The effective filters are stored, so quick filters become part of the view.
// Saving the result is up to the caller.
func (m *Manager) SnapshotView(name string) models.View {
	m.mu.Lock()
	defer m.mu.Unlock()

	effective := m.effectiveLocked()
	view := models.View{
		TableID:    m.tableID,
		Name:       name,
		Filters:    cloneFilters(effective.Filters),
		FilterMode: effective.FilterMode,
		Sorting:    cloneSorting(m.sorting),
		GroupBy:    m.groupBy.Spec(),
		PageSize:   m.pageSize,
	}
	if m.view != nil && m.view.Name == name {
		view.ID = m.view.ID
		view.IsDefault = m.view.IsDefault
		view.CreatedAt = m.view.CreatedAt
	}
	return view
}

func run(pending []func()) {
	for _, fn := range pending {
		fn()
	}
}

func cloneFilters(filters []models.ServerTableFilter) []models.ServerTableFilter {
	if filters == nil {
		return nil
	}
	out := make([]models.ServerTableFilter, len(filters))
	for i, f := range filters {
		if items, ok := f.Value.([]string); ok {
			copied := make([]string, len(items))
			copy(copied, items)
			f.Value = copied
		}
		out[i] = f
	}
	return out
}

func cloneSorting(sorting []models.SortSpec) []models.SortSpec {
	if sorting == nil {
		return nil
	}
	out := make([]models.SortSpec, len(sorting))
	copy(out, sorting)
	return out
}

func cloneView(v models.View) models.View {
	v.Filters = cloneFilters(v.Filters)
	v.Sorting = cloneSorting(v.Sorting)
	if v.GroupBy != nil {
		g := *v.GroupBy
		g.Order = append([]string(nil), v.GroupBy.Order...)
		v.GroupBy = &g
	}
	return v
}
