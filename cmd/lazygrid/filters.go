package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/db/query"
	"github.com/rebeliceyang/lazygrid/internal/ui/components"
)

type filtersOptions struct {
	state      stateFlags
	sql        bool
	jsonOutput bool
}

func newFiltersCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &filtersOptions{}

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Show the effective filters of a view combined with quick filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilters(cmd, rootFlags, opts)
		},
	}

	opts.state.register(cmd)
	cmd.Flags().BoolVar(&opts.sql, "sql", false, "Also print the SQL the filters translate to")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runFilters(cmd *cobra.Command, rootFlags *rootFlags, opts *filtersOptions) error {
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

	effective := m.EffectiveFilters()
	out := cmd.OutOrStdout()

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(effective)
	}

	title := app.tableID
	if v := m.ActiveView(); v != nil {
		title += " / " + v.Name
	}
	list := &components.FilterList{
		Title:  title,
		Set:    effective,
		Labels: app.columnLabels(),
		Styles: app.styles(),
	}
	if opts.sql {
		sql, args, err := query.BuildSelect(m.Query())
		if err != nil {
			return err
		}
		list.SQL = sql
		if len(args) > 0 {
			list.SQL += fmt.Sprintf("\n-- args: %v", args)
		}
	}

	fmt.Fprintln(out, list.View())
	return nil
}
