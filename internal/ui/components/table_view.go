package components

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/tableview"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

const (
	defaultMaxCellWidth = 50
	minCellWidth        = 4
)

// Styles holds the lipgloss styles of the table renderer
type Styles struct {
	Header    lipgloss.Style
	Separator lipgloss.Style
	Group     lipgloss.Style
	Status    lipgloss.Style
	Null      lipgloss.Style
}

// DefaultStyles returns the styles of the default theme
func DefaultStyles() Styles {
	return StylesFromTheme(theme.DefaultTheme())
}

// StylesFromTheme builds the renderer styles from a color theme
func StylesFromTheme(th theme.Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(th.TableHeader).
			Background(th.TableHeaderBg),
		Separator: lipgloss.NewStyle().Foreground(th.Border),
		Group:     lipgloss.NewStyle().Bold(true).Foreground(th.GroupHeader),
		Status:    lipgloss.NewStyle().Foreground(th.Status).Italic(true),
		Null:      lipgloss.NewStyle().Foreground(th.Null),
	}
}

// PlainStyles returns styles without any decoration
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Header: plain, Separator: plain, Group: plain, Status: plain, Null: plain}
}

// CellLabeler returns a display label for a cell, or false to show the raw value
type CellLabeler func(column string, row models.Row) (string, bool)

// TableView renders one page of rows, optionally split into groups
type TableView struct {
	Columns []string
	Headers map[string]string
	Rows    []models.Row
	Groups  []tableview.RowGroup
	Page    tableview.PageSlice

	MaxCellWidth int
	Labeler      CellLabeler
	Styles       Styles

	columnWidths []int
}

// NewTableView creates a table view with the default styles
func NewTableView() *TableView {
	return &TableView{
		Columns:      []string{},
		Rows:         []models.Row{},
		MaxCellWidth: defaultMaxCellWidth,
		Styles:       DefaultStyles(),
	}
}

// SetData sets the columns and the page to render. Groups, when set, take
// precedence over the flat row list.
func (tv *TableView) SetData(columns []string, page tableview.PageSlice, groups []tableview.RowGroup) {
	tv.Columns = columns
	tv.Page = page
	tv.Rows = page.Rows
	tv.Groups = groups
	tv.calculateColumnWidths()
}

func (tv *TableView) header(col string) string {
	if h, ok := tv.Headers[col]; ok && h != "" {
		return h
	}
	return col
}

func (tv *TableView) cell(col string, row models.Row) string {
	if tv.Labeler != nil {
		if label, ok := tv.Labeler(col, row); ok {
			return label
		}
	}
	return FormatCell(row[col])
}

func (tv *TableView) visibleRows() []models.Row {
	if tv.Groups == nil {
		return tv.Rows
	}
	var rows []models.Row
	for _, g := range tv.Groups {
		if !g.Collapsed {
			rows = append(rows, g.Rows...)
		}
	}
	return rows
}

// calculateColumnWidths sizes every column to its widest cell within the limits
func (tv *TableView) calculateColumnWidths() {
	maxWidth := tv.MaxCellWidth
	if maxWidth <= 0 {
		maxWidth = defaultMaxCellWidth
	}

	tv.columnWidths = make([]int, len(tv.Columns))
	for i, col := range tv.Columns {
		tv.columnWidths[i] = runewidth.StringWidth(tv.header(col))
	}
	for _, row := range tv.visibleRows() {
		for i, col := range tv.Columns {
			if w := runewidth.StringWidth(tv.cell(col, row)); w > tv.columnWidths[i] {
				tv.columnWidths[i] = w
			}
		}
	}
	for i := range tv.columnWidths {
		if tv.columnWidths[i] > maxWidth {
			tv.columnWidths[i] = maxWidth
		}
		if tv.columnWidths[i] < minCellWidth {
			tv.columnWidths[i] = minCellWidth
		}
	}
}

// View renders the table
func (tv *TableView) View() string {
	if len(tv.Columns) == 0 {
		return tv.Styles.Status.Render("No data")
	}
	if len(tv.columnWidths) != len(tv.Columns) {
		tv.calculateColumnWidths()
	}

	var lines []string
	lines = append(lines, tv.renderHeader(), tv.renderSeparator())

	if tv.Groups != nil {
		for _, g := range tv.Groups {
			lines = append(lines, tv.renderGroupHeader(g))
			if g.Collapsed {
				continue
			}
			for _, row := range g.Rows {
				lines = append(lines, tv.renderRow(row))
			}
		}
	} else {
		for _, row := range tv.Rows {
			lines = append(lines, tv.renderRow(row))
		}
	}

	lines = append(lines, tv.renderStatus())
	return strings.Join(lines, "\n")
}

func (tv *TableView) renderHeader() string {
	parts := make([]string, len(tv.Columns))
	for i, col := range tv.Columns {
		parts[i] = pad(tv.header(col), tv.columnWidths[i])
	}
	return tv.Styles.Header.Render(" " + strings.Join(parts, " │ ") + " ")
}

func (tv *TableView) renderSeparator() string {
	parts := make([]string, len(tv.columnWidths))
	for i, width := range tv.columnWidths {
		parts[i] = strings.Repeat("─", width)
	}
	return tv.Styles.Separator.Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderGroupHeader(g tableview.RowGroup) string {
	marker := "▾"
	if g.Collapsed {
		marker = "▸"
	}
	key := g.Key
	if key == "" {
		key = "(empty)"
	}
	return tv.Styles.Group.Render(fmt.Sprintf("%s %s (%d)", marker, key, len(g.Rows)))
}

func (tv *TableView) renderRow(row models.Row) string {
	parts := make([]string, len(tv.Columns))
	for i, col := range tv.Columns {
		text := pad(tv.cell(col, row), tv.columnWidths[i])
		if row[col] == nil {
			text = tv.Styles.Null.Render(text)
		}
		parts[i] = text
	}
	return " " + strings.Join(parts, " │ ") + " "
}

func (tv *TableView) renderStatus() string {
	p := tv.Page
	if p.TotalRows == 0 {
		return tv.Styles.Status.Render(" 0 rows")
	}
	first := p.Page*p.PageSize + 1
	last := first + len(p.Rows) - 1
	return tv.Styles.Status.Render(fmt.Sprintf(" %d-%d of %d rows · page %d/%d",
		first, last, p.TotalRows, p.Page+1, p.TotalPages))
}

// pad truncates or right-pads s to exactly width terminal cells
func pad(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "...")
	}
	return runewidth.FillRight(s, width)
}

// FormatCell renders a cell value as text. JSON values are encoded compactly.
func FormatCell(val any) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case []byte:
		return string(v)
	case [16]byte:
		return uuid.UUID(v).String()
	case pgtype.UUID:
		if !v.Valid {
			return "NULL"
		}
		return uuid.UUID(v.Bytes).String()
	case pgtype.Numeric:
		n, err := v.Value()
		if err != nil || n == nil {
			return "NULL"
		}
		return fmt.Sprint(n)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", val)
	}
}
