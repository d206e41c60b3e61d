package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

func testViews() []models.View {
	return []models.View{
		{
			ID:      "v1",
			TableID: "support.tickets",
			Name:    "Urgent, \"open\" tickets",
			Filters: []models.ServerTableFilter{
				{Field: "status", Operator: models.OpEquals, Value: "open"},
				{Field: "priority", Operator: models.OpIn, Value: []string{"high", "urgent"}},
				{Field: "escalated", Operator: models.OpIsTrue, Value: ""},
			},
			FilterMode: models.FilterModeAny,
			Sorting:    []models.SortSpec{{Field: "openedAt", Direction: models.SortDesc}},
			GroupBy:    &models.GroupSpec{Field: "status"},
			PageSize:   50,
			IsDefault:  true,
			CreatedAt:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "v2",
			TableID:   "support.tickets",
			Name:      "Everything",
			CreatedAt: time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportViewsToCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "views.csv")

	if err := ExportViewsToCSV(testViews(), csvPath); err != nil {
		t.Fatalf("ExportViewsToCSV failed: %v", err)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	if records[0][0] != "ID" || records[0][4] != "Filters" {
		t.Errorf("Unexpected header: %v", records[0])
	}

	first := records[1]
	want := []string{
		"v1",
		"support.tickets",
		"Urgent, \"open\" tickets",
		"any",
		"status equals open; priority in [high, urgent]; escalated isTrue",
		"openedAt:desc",
		"status",
		"50",
		"true",
		"2024-01-01 12:00:00",
		"2024-01-02 12:00:00",
	}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("column %d: expected %q, got %q", i, want[i], first[i])
		}
	}

	second := records[2]
	if second[3] != "all" {
		t.Errorf("Expected default mode all, got %q", second[3])
	}
	if second[4] != "" || second[6] != "" || second[7] != "" {
		t.Errorf("Expected empty filters, group and page size, got %v", second)
	}
}

func TestExportViewsToJSON(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "views.json")

	if err := ExportViewsToJSON(testViews(), jsonPath); err != nil {
		t.Fatalf("ExportViewsToJSON failed: %v", err)
	}

	info, err := os.Stat(jsonPath)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("Expected file permissions 0644, got %o", info.Mode().Perm())
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Failed to read JSON: %v", err)
	}
	var got []models.View
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 views, got %d", len(got))
	}
	if got[0].Name != "Urgent, \"open\" tickets" || got[0].FilterMode != models.FilterModeAny {
		t.Errorf("Unexpected first view: %+v", got[0])
	}
	if got[0].GroupBy == nil || got[0].GroupBy.Field != "status" {
		t.Errorf("Expected group by status, got %+v", got[0].GroupBy)
	}
}

func TestExportViewsToJSONEmpty(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "views.json")

	if err := ExportViewsToJSON(nil, jsonPath); err != nil {
		t.Fatalf("ExportViewsToJSON failed: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Failed to read JSON: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected [], got %s", data)
	}
}

func TestExportInvalidPath(t *testing.T) {
	badPath := filepath.Join(t.TempDir(), "missing", "views.csv")

	if err := ExportViewsToCSV(testViews(), badPath); err == nil {
		t.Error("Expected error for missing directory, got nil")
	}
	if err := ExportViewsToJSON(testViews(), badPath); err == nil {
		t.Error("Expected error for missing directory, got nil")
	}
}

func TestWriteRowsCSV(t *testing.T) {
	rows := []models.Row{
		{"id": 1, "subject": "Printer, on fire", "dueDate": nil},
		{"id": 2, "subject": "VPN"},
	}
	format := func(v any) string {
		if v == nil {
			return "NULL"
		}
		b, _ := json.Marshal(v)
		return string(bytes.Trim(b, `"`))
	}

	var buf bytes.Buffer
	if err := WriteRowsCSV(&buf, []string{"id", "subject", "dueDate"}, rows, format); err != nil {
		t.Fatalf("WriteRowsCSV failed: %v", err)
	}

	want := "id,subject,dueDate\n1,\"Printer, on fire\",NULL\n2,VPN,NULL\n"
	if buf.String() != want {
		t.Errorf("Expected:\n%s\nGot:\n%s", want, buf.String())
	}
}
