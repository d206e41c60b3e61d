package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
	table      string

	app *appContext
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "lazygrid",
		Short:         "lazygrid turns quick filters and saved views into table queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default: user config dir, ./config.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVarP(&flags.table, "table", "t", "", "Table id (default: general.default_table)")

	cmd.AddCommand(newFiltersCmd(flags))
	cmd.AddCommand(newViewsCmd(flags))
	cmd.AddCommand(newQueryCmd(flags))
	cmd.AddCommand(newRegistryCmd(flags))
	cmd.AddCommand(newOptionsCmd(flags))

	return cmd
}
