package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/db/connection"
	"github.com/rebeliceyang/lazygrid/internal/db/query"
	"github.com/rebeliceyang/lazygrid/internal/entity"
	"github.com/rebeliceyang/lazygrid/internal/export"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/tableview"
	"github.com/rebeliceyang/lazygrid/internal/ui/components"
)

type queryOptions struct {
	state    stateFlags
	page     int
	pageSize int
	apiURL   string
	timeout  time.Duration
	format   string
}

func newQueryCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run the effective filters against Postgres and show one page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, rootFlags, opts)
		},
	}

	opts.state.register(cmd)
	cmd.Flags().IntVar(&opts.page, "page", 1, "Page to show, starting at 1")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "Rows per page (default: the view's or data.default_page_size)")
	cmd.Flags().StringVar(&opts.apiURL, "api", "", "Base URL used to resolve entity labels missing from rows")
	cmd.Flags().DurationVar(&opts.timeout, "api-timeout", 5*time.Second, "Timeout of a single label lookup")
	cmd.Flags().StringVar(&opts.format, "format", "table", "Output format: table or csv")

	return cmd
}

func runQuery(cmd *cobra.Command, rootFlags *rootFlags, opts *queryOptions) error {
	if opts.format != "table" && opts.format != "csv" {
		return fmt.Errorf("unsupported output format %q: use table or csv", opts.format)
	}

	app, err := rootFlags.load(cmd)
	if err != nil {
		return err
	}
	store, err := app.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	m, err := app.newManager()
	if err != nil {
		return err
	}
	if err := app.selectView(m, store, opts.state.view); err != nil {
		return err
	}
	if err := opts.state.apply(m); err != nil {
		return err
	}
	if opts.pageSize > 0 {
		if opts.pageSize > app.cfg.Data.MaxPageSize {
			return fmt.Errorf("page size %d exceeds data.max_page_size %d", opts.pageSize, app.cfg.Data.MaxPageSize)
		}
		m.SetPageSize(opts.pageSize)
	}
	m.SetPage(opts.page - 1)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := connection.NewPool(ctx, app.cfg.Database.ConnectionConfig())
	if err != nil {
		return err
	}
	defer pool.Close()

	q := m.Query()
	result := query.Execute(ctx, pool, q, pool.QueryTimeout())
	if result.Error != nil {
		return result.Error
	}
	app.log.WithFields(map[string]any{
		"rows":     len(result.Rows),
		"total":    result.TotalRows,
		"duration": result.Duration.String(),
	}).Debug("query executed")

	if opts.format == "csv" {
		return export.WriteRowsCSV(cmd.OutOrStdout(), result.Columns, result.Rows, components.FormatCell)
	}

	page := serverPage(result, m.Page(), q.Limit)
	tv := app.newTableView()
	tv.Headers = app.columnLabels()
	tv.Labeler = newLabeler(ctx, app, opts)
	tv.SetData(result.Columns, page, m.GroupRows(result.Rows))

	fmt.Fprintln(cmd.OutOrStdout(), tv.View())
	return nil
}

// serverPage describes a page the server already sliced
func serverPage(result models.QueryResult, page, pageSize int) tableview.PageSlice {
	total := int(result.TotalRows)
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return tableview.PageSlice{
		Rows:       result.Rows,
		Page:       page,
		PageSize:   pageSize,
		TotalRows:  total,
		TotalPages: totalPages,
	}
}

// newLabeler shows entity columns by label: from the row itself when the
// response carries one, otherwise from the API when --api is set.
func newLabeler(ctx context.Context, app *appContext, opts *queryOptions) components.CellLabeler {
	entityTypes := make(map[string]string)
	for _, def := range app.registry.Definitions(app.tableID) {
		if def.EntityType != "" {
			entityTypes[def.ColumnKey] = def.EntityType
		}
	}
	if len(entityTypes) == 0 {
		return nil
	}

	var fetch entity.FetchFunc
	if opts.apiURL != "" {
		fetch = entity.NewHTTPFetcher(opts.apiURL, opts.timeout).Fetch
	}
	cache := make(map[string]string)

	return func(column string, row models.Row) (string, bool) {
		entityType, ok := entityTypes[column]
		if !ok {
			return "", false
		}
		if label, ok := app.resolver.RowLabel(entityType, column, row); ok {
			return label, true
		}
		if fetch == nil || row[column] == nil {
			return "", false
		}

		id := components.FormatCell(row[column])
		key := entityType + "/" + id
		if label, ok := cache[key]; ok {
			return label, label != ""
		}
		label, _ := app.resolver.ResolveLabel(ctx, entityType, id, fetch)
		cache[key] = label
		return label, label != ""
	}
}
