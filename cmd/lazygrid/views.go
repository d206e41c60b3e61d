package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/export"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/tableview"
)

func newViewsCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Manage saved table views",
	}

	cmd.AddCommand(newViewsListCmd(rootFlags))
	cmd.AddCommand(newViewsSaveCmd(rootFlags))
	cmd.AddCommand(newViewsDeleteCmd(rootFlags))
	cmd.AddCommand(newViewsExportCmd(rootFlags))

	return cmd
}

func newViewsListCmd(rootFlags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the saved views of a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewsList(cmd, rootFlags)
		},
	}
}

func runViewsList(cmd *cobra.Command, rootFlags *rootFlags) error {
	app, err := rootFlags.load(cmd)
	if err != nil {
		return err
	}
	store, err := app.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	list, err := store.List(app.tableID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No saved views for %s.\n", app.tableID)
		return nil
	}

	rows := make([]models.Row, len(list))
	for i, v := range list {
		def := ""
		if v.IsDefault {
			def = "*"
		}
		rows[i] = models.Row{
			"id":      v.ID,
			"name":    v.Name,
			"mode":    string(v.FilterMode.OrDefault()),
			"filters": strconv.Itoa(len(v.Filters)),
			"default": def,
		}
	}

	tv := app.newTableView()
	tv.SetData([]string{"id", "name", "mode", "filters", "default"}, tableview.PageRows(rows, 0, len(rows)), nil)
	fmt.Fprintln(cmd.OutOrStdout(), tv.View())
	return nil
}

type viewsSaveOptions struct {
	state     stateFlags
	isDefault bool
	pageSize  int
}

func newViewsSaveCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &viewsSaveOptions{}

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current filters, sorting and grouping as a named view",
		Long: "Save starts from --view (or the default view), applies quick filters, sorting\n" +
			"and grouping, and stores the effective result under <name>. Saving under the\n" +
			"name of the starting view updates it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewsSave(cmd, rootFlags, opts, args[0])
		},
	}

	opts.state.register(cmd)
	cmd.Flags().BoolVar(&opts.isDefault, "default", false, "Make this the table's default view")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "Page size stored with the view")

	return cmd
}

func runViewsSave(cmd *cobra.Command, rootFlags *rootFlags, opts *viewsSaveOptions, name string) error {
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
		m.SetPageSize(opts.pageSize)
	}

	view := m.SnapshotView(name)
	if opts.isDefault {
		view.IsDefault = true
	}

	saved, err := store.Save(view)
	if err != nil {
		return err
	}
	app.log.WithFields(map[string]any{"view": saved.Name, "id": saved.ID}).Info("view saved")
	fmt.Fprintf(cmd.OutOrStdout(), "Saved view %q (%s) with %d filters.\n", saved.Name, saved.ID, len(saved.Filters))
	return nil
}

func newViewsDeleteCmd(rootFlags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id-or-name>",
		Short: "Delete a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootFlags.load(cmd)
			if err != nil {
				return err
			}
			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			v, err := findView(store, app.tableID, args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(v.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted view %q.\n", v.Name)
			return nil
		},
	}
}

func newViewsExportCmd(rootFlags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export the saved views of a table to CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
			}
			if format != "csv" && format != "json" {
				return fmt.Errorf("unsupported export format %q: use csv or json", format)
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

			list, err := store.List(app.tableID)
			if err != nil {
				return err
			}
			if format == "csv" {
				err = export.ExportViewsToCSV(list, path)
			} else {
				err = export.ExportViewsToJSON(list, path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d views to %s.\n", len(list), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Export format: csv or json (default: from the file extension)")

	return cmd
}
