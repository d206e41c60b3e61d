package query

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/tableview"
)

// Querier is the part of a pgx pool the executor needs
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Execute runs the page and the count for q. Failures are reported in
// QueryResult.Error.
func Execute(ctx context.Context, db Querier, q tableview.Query, timeout time.Duration) models.QueryResult {
	start := time.Now()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fail := func(err error) models.QueryResult {
		return models.QueryResult{Error: err, Duration: time.Since(start)}
	}

	countSQL, countArgs, err := BuildCount(q)
	if err != nil {
		return fail(err)
	}
	var total int64
	if err := db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return fail(fmt.Errorf("failed to count rows: %w", err))
	}

	selectSQL, selectArgs, err := BuildSelect(q)
	if err != nil {
		return fail(err)
	}
	rows, err := db.Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		return fail(fmt.Errorf("failed to query table data: %w", err))
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}

	result := []models.Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return fail(err)
		}
		row := make(models.Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return fail(err)
	}

	return models.QueryResult{
		Columns:   columns,
		Rows:      result,
		TotalRows: total,
		Duration:  time.Since(start),
	}
}
