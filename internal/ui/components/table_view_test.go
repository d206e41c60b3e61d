package components

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/tableview"
)

func newPlainTable() *TableView {
	tv := NewTableView()
	tv.Styles = PlainStyles()
	return tv
}

func TestTableView_Flat(t *testing.T) {
	rows := []models.Row{
		{"id": 1, "name": "Ann"},
		{"id": 2, "name": nil},
	}
	tv := newPlainTable()
	tv.SetData([]string{"id", "name"}, tableview.PageRows(rows, 0, 10), nil)

	lines := strings.Split(tv.View(), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d:\n%s", len(lines), tv.View())
	}
	if lines[0] != " id   │ name " {
		t.Errorf("Unexpected header %q", lines[0])
	}
	if lines[2] != " 1    │ Ann  " {
		t.Errorf("Unexpected first row %q", lines[2])
	}
	if lines[3] != " 2    │ NULL " {
		t.Errorf("Unexpected second row %q", lines[3])
	}
	if !strings.Contains(lines[4], "1-2 of 2 rows · page 1/1") {
		t.Errorf("Unexpected status %q", lines[4])
	}
}

func TestTableView_Groups(t *testing.T) {
	rows := []models.Row{
		{"subject": "Printer", "status": "open"},
		{"subject": "Login", "status": "closed"},
		{"subject": "VPN", "status": "open"},
	}
	groups := tableview.GroupRows(rows, &tableview.GroupBy{
		Field:     "status",
		SortOrder: tableview.GroupSortOrder{Values: []string{"open", "closed"}},
	})
	groups[1].Collapsed = true

	tv := newPlainTable()
	tv.SetData([]string{"subject"}, tableview.PageRows(rows, 0, 10), groups)
	out := tv.View()

	if !strings.Contains(out, "▾ open (2)") {
		t.Errorf("Expected expanded open group, got:\n%s", out)
	}
	if !strings.Contains(out, "▸ closed (1)") {
		t.Errorf("Expected collapsed closed group, got:\n%s", out)
	}
	if strings.Contains(out, "Login") {
		t.Errorf("Collapsed group rows must be hidden, got:\n%s", out)
	}
	if strings.Index(out, "Printer") > strings.Index(out, "VPN") {
		t.Errorf("Rows within a group must keep their order, got:\n%s", out)
	}
}

func TestTableView_TruncatesWideCells(t *testing.T) {
	tv := newPlainTable()
	tv.MaxCellWidth = 8
	tv.SetData([]string{"note"}, tableview.PageRows([]models.Row{{"note": "a very long note indeed"}}, 0, 10), nil)

	out := tv.View()
	if !strings.Contains(out, " a ver... ") {
		t.Errorf("Expected truncated cell, got:\n%s", out)
	}
}

func TestTableView_WideRunes(t *testing.T) {
	tv := newPlainTable()
	tv.SetData([]string{"name"}, tableview.PageRows([]models.Row{{"name": "日本"}, {"name": "abcdef"}}, 0, 10), nil)

	lines := strings.Split(tv.View(), "\n")
	if lines[2] != " 日本   " {
		t.Errorf("Expected wide runes padded by display width, got %q", lines[2])
	}
}

func TestTableView_LabelerAndHeaders(t *testing.T) {
	tv := newPlainTable()
	tv.Headers = map[string]string{"ownerId": "Owner"}
	tv.Labeler = func(column string, row models.Row) (string, bool) {
		if column != "ownerId" {
			return "", false
		}
		name, ok := row["ownerName"].(string)
		return name, ok
	}
	tv.SetData([]string{"ownerId"}, tableview.PageRows([]models.Row{{"ownerId": "u1", "ownerName": "Dana"}}, 0, 10), nil)

	out := tv.View()
	if !strings.Contains(out, "Owner") || !strings.Contains(out, "Dana") || strings.Contains(out, "u1") {
		t.Errorf("Expected labelled owner column, got:\n%s", out)
	}
}

func TestTableView_Empty(t *testing.T) {
	tv := newPlainTable()
	if got := tv.View(); got != "No data" {
		t.Errorf("Expected 'No data', got %q", got)
	}

	tv.SetData([]string{"id"}, tableview.PageRows(nil, 0, 10), nil)
	if !strings.Contains(tv.View(), " 0 rows") {
		t.Errorf("Expected zero row status, got:\n%s", tv.View())
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{"text", "text"},
		{[]byte("raw"), "raw"},
		{42, "42"},
		{3.5, "3.5"},
		{true, "true"},
		{map[string]any{"a": 1.0}, `{"a":1}`},
		{[]any{"x", 2.0}, `["x",2]`},
		{time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), "2024-01-31"},
		{time.Date(2024, 1, 31, 9, 30, 0, 0, time.UTC), "2024-01-31T09:30:00Z"},
		{[16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0},
			"12345678-9abc-def0-1234-56789abcdef0"},
		{pgtype.UUID{Bytes: [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}, Valid: true},
			"12345678-9abc-def0-1234-56789abcdef0"},
		{pgtype.UUID{}, "NULL"},
		{pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}, "123.45"},
		{pgtype.Numeric{}, "NULL"},
	}
	for _, tt := range tests {
		if got := FormatCell(tt.in); got != tt.want {
			t.Errorf("FormatCell(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterList(t *testing.T) {
	fl := &FilterList{
		Title: "crm.contacts",
		Set: models.ViewFilterSet{
			FilterMode: models.FilterModeAll,
			Filters: []models.ServerTableFilter{
				{Field: "status", Operator: models.OpEquals, Value: "closed"},
				{Field: "tags", Operator: models.OpIn, Value: []string{"vip", "beta"}},
				{Field: "isActive", Operator: models.OpIsTrue, Value: ""},
				{Field: "score", Operator: models.OpEquals, Value: 42.0},
			},
		},
		Labels: map[string]string{"status": "Status"},
		SQL:    `SELECT * FROM "crm"."contacts"`,
		Styles: PlainStyles(),
	}

	out := fl.View()
	for _, want := range []string{
		"Mode: all",
		` 1. Status equals "closed"`,
		" 2. tags in [vip, beta]",
		" 3. isActive isTrue",
		" 4. score equals 42",
		`SELECT * FROM "crm"."contacts"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}

	empty := &FilterList{Styles: PlainStyles()}
	if !strings.Contains(empty.View(), "No filters") {
		t.Errorf("Expected empty marker, got:\n%s", empty.View())
	}
}
