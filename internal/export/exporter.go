package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// ExportViewsToCSV exports saved views to a CSV file, one view per row
func ExportViewsToCSV(views []models.View, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	header := []string{"ID", "Table", "Name", "Mode", "Filters", "Sorting", "Group By", "Page Size", "Default", "Created", "Updated"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, v := range views {
		groupBy := ""
		if v.GroupBy != nil {
			groupBy = v.GroupBy.Field
		}
		pageSize := ""
		if v.PageSize > 0 {
			pageSize = strconv.Itoa(v.PageSize)
		}

		row := []string{
			v.ID,
			v.TableID,
			v.Name,
			string(v.FilterMode.OrDefault()),
			describeFilters(v.Filters),
			describeSorting(v.Sorting),
			groupBy,
			pageSize,
			strconv.FormatBool(v.IsDefault),
			v.CreatedAt.Format(timeLayout),
			v.UpdatedAt.Format(timeLayout),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ExportViewsToJSON exports saved views to a JSON file in their stored shape
func ExportViewsToJSON(views []models.View, path string) error {
	if views == nil {
		views = []models.View{}
	}
	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal views to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

// WriteRowsCSV writes rows as CSV with a header of columns. format renders each cell.
func WriteRowsCSV(w io.Writer, columns []string, rows []models.Row, format func(any) string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = format(row[col])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func describeFilters(filters []models.ServerTableFilter) string {
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = fmt.Sprintf("%s %s", f.Field, f.Operator)
		switch val := f.Value.(type) {
		case nil:
		case []string:
			parts[i] += " [" + strings.Join(val, ", ") + "]"
		case string:
			if val != "" {
				parts[i] += " " + val
			}
		default:
			parts[i] += fmt.Sprintf(" %v", val)
		}
	}
	return strings.Join(parts, "; ")
}

func describeSorting(sorting []models.SortSpec) string {
	parts := make([]string, len(sorting))
	for i, s := range sorting {
		parts[i] = s.Field + ":" + string(s.Direction)
	}
	return strings.Join(parts, ", ")
}
