package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/entity"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

type optionsOptions struct {
	apiURL  string
	search  string
	resolve string
	timeout time.Duration
}

func newOptionsCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &optionsOptions{}

	cmd := &cobra.Command{
		Use:   "options <column>",
		Short: "List, search or resolve the options of a select or autocomplete column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(cmd, rootFlags, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.apiURL, "api", "", "Base URL of the options API")
	cmd.Flags().StringVar(&opts.search, "search", "", "Search term")
	cmd.Flags().StringVar(&opts.resolve, "resolve", "", "Resolve the label of this option value")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "Request timeout")

	return cmd
}

func runOptions(cmd *cobra.Command, rootFlags *rootFlags, opts *optionsOptions, column string) error {
	app, err := rootFlags.load(cmd)
	if err != nil {
		return err
	}

	def, ok := app.registry.Lookup(app.tableID, column)
	if !ok {
		return fmt.Errorf("column %q has no filter definition in %s", column, app.tableID)
	}

	var fetch entity.FetchFunc = func(context.Context, string) ([]byte, error) {
		return nil, errors.New("no --api base URL given")
	}
	if opts.apiURL != "" {
		fetch = entity.NewHTTPFetcher(opts.apiURL, opts.timeout).Fetch
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if opts.resolve != "" {
		label, ok := app.resolver.ResolveOption(ctx, def, opts.resolve, fetch)
		if !ok {
			return fmt.Errorf("no label found for %q", opts.resolve)
		}
		fmt.Fprintln(out, label)
		if path, ok := app.resolver.DetailPath(def.EntityType, opts.resolve); ok {
			fmt.Fprintln(out, path)
		}
		return nil
	}

	var options []models.Option
	if opts.search != "" {
		options = app.resolver.SearchOptions(ctx, def, opts.search, fetch)
	} else {
		options = app.resolver.LoadOptions(ctx, def, fetch)
	}
	if len(options) == 0 {
		fmt.Fprintln(out, "No options.")
		return nil
	}
	for _, o := range options {
		fmt.Fprintf(out, "%s\t%s\n", o.Value, o.Label)
	}
	return nil
}
