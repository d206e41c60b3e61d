package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/tableview"
)

func newRegistryCmd(rootFlags *rootFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "List filterable columns and the operators their quick filters produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootFlags.load(cmd)
			if err != nil {
				return err
			}

			tables := []string{app.tableID}
			if all {
				tables = app.registry.Tables()
			}

			out := cmd.OutOrStdout()
			for i, table := range tables {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, table)

				defs := app.registry.Definitions(table)
				if len(defs) == 0 {
					fmt.Fprintln(out, "  no filter definitions; values use default inference")
					continue
				}
				tv := app.newTableView()
				tv.SetData(
					[]string{"column", "label", "type", "entity", "operators"},
					tableview.PageRows(registryRows(defs), 0, len(defs)),
					nil,
				)
				fmt.Fprintln(out, tv.View())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every registered table")

	return cmd
}

func registryRows(defs []models.FilterDefinition) []models.Row {
	rows := make([]models.Row, len(defs))
	for i, def := range defs {
		ops := filter.GetOperatorsForType(def.FilterType)
		names := make([]string, len(ops))
		for j, op := range ops {
			names[j] = string(op)
		}
		rows[i] = models.Row{
			"column":    def.ColumnKey,
			"label":     def.Label,
			"type":      string(def.FilterType),
			"entity":    def.EntityType,
			"operators": strings.Join(names, ", "),
		}
	}
	return rows
}
