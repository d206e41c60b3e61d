package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/config"
	"github.com/rebeliceyang/lazygrid/internal/entity"
	"github.com/rebeliceyang/lazygrid/internal/logger"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/registry"
	"github.com/rebeliceyang/lazygrid/internal/tableview"
	"github.com/rebeliceyang/lazygrid/internal/ui/components"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
	"github.com/rebeliceyang/lazygrid/internal/views"
)

// appContext bundles the services every command needs
type appContext struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *registry.Registry
	resolver *entity.Resolver
	tableID  string
}

// load builds the app context once per process
func (f *rootFlags) load(cmd *cobra.Command) (*appContext, error) {
	if f.app != nil {
		return f.app, nil
	}

	cfg, err := config.LoadFile(f.configPath)
	if err != nil {
		return nil, err
	}

	opts := cfg.Log.LoggerOptions()
	opts.Writer = cmd.ErrOrStderr()
	if f.verbose {
		opts.Level = "debug"
	}
	log, err := logger.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	reg := registry.Default()
	if cfg.General.RegistryPath != "" {
		reg, err = registry.Load(cfg.General.RegistryPath)
		if err != nil {
			return nil, err
		}
		log.With("path", cfg.General.RegistryPath).Debug("filter registry loaded")
	}

	tableID := f.table
	if tableID == "" {
		tableID = cfg.General.DefaultTable
	}
	if tableID == "" {
		return nil, errors.New("no table given; use --table or set general.default_table")
	}

	f.app = &appContext{
		cfg:      cfg,
		log:      log.With("table", tableID),
		registry: reg,
		resolver: entity.NewResolver(reg.Entities(), log),
		tableID:  tableID,
	}
	return f.app, nil
}

func (a *appContext) openStore() (views.Store, error) {
	switch a.cfg.Views.Backend {
	case "sqlite":
		return views.NewSQLiteStore(a.cfg.Views.Path)
	default:
		return views.NewYAMLStore(a.cfg.Views.Path)
	}
}

func (a *appContext) newManager() (*tableview.Manager, error) {
	return tableview.NewManager(tableview.Options{
		TableID:  a.tableID,
		Registry: a.registry,
		Logger:   a.log,
		PageSize: a.cfg.Data.DefaultPageSize,
	})
}

// findView resolves ref as a view ID, then as a case-insensitive name within the table
func findView(store views.Store, tableID, ref string) (models.View, error) {
	if v, err := store.Get(ref); err == nil {
		return v, nil
	} else if !errors.Is(err, views.ErrViewNotFound) {
		return models.View{}, err
	}

	list, err := store.List(tableID)
	if err != nil {
		return models.View{}, err
	}
	for _, v := range list {
		if strings.EqualFold(v.Name, ref) {
			return v, nil
		}
	}
	return models.View{}, fmt.Errorf("%w: %q in %s", views.ErrViewNotFound, ref, tableID)
}

// selectView applies ref, or the table's default view when ref is empty
func (a *appContext) selectView(m *tableview.Manager, store views.Store, ref string) error {
	if ref == "" {
		v, err := store.Default(a.tableID)
		if errors.Is(err, views.ErrViewNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		m.SelectView(&v)
		return nil
	}

	v, err := findView(store, a.tableID, ref)
	if err != nil {
		return err
	}
	m.SelectView(&v)
	return nil
}

// styles returns the renderer styles of the configured theme
func (a *appContext) styles() components.Styles {
	return components.StylesFromTheme(theme.GetTheme(a.cfg.General.Theme))
}

// newTableView creates a table view styled and sized from the config
func (a *appContext) newTableView() *components.TableView {
	tv := components.NewTableView()
	tv.MaxCellWidth = a.cfg.Data.MaxCellDisplayLength
	tv.Styles = a.styles()
	return tv
}

// columnLabels maps column keys to their registry labels
func (a *appContext) columnLabels() map[string]string {
	labels := make(map[string]string)
	for _, def := range a.registry.Definitions(a.tableID) {
		if def.Label != "" {
			labels[def.ColumnKey] = def.Label
		}
	}
	return labels
}
