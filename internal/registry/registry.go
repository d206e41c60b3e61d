package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"gopkg.in/yaml.v3"
)

var (
	// ErrDuplicateColumn is returned when a table lists the same column key twice
	ErrDuplicateColumn = errors.New("duplicate column key")
	// ErrUnknownFilterType is returned for a filter type outside the known set
	ErrUnknownFilterType = errors.New("unknown filter type")
	// ErrUnknownEntity is returned when a column references an undefined entity type
	ErrUnknownEntity = errors.New("unknown entity type")
)

// File is the on-disk registry layout
type File struct {
	Tables   map[string][]models.FilterDefinition `yaml:"tables"`
	Entities map[string]models.EntityDefinition   `yaml:"entities"`
}

// Registry is the immutable table -> filter definition and entity type -> entity definition
// configuration. The zero value and a nil *Registry behave as an empty registry.
type Registry struct {
	tables   map[string][]models.FilterDefinition
	index    map[string]map[string]models.FilterDefinition
	entities map[string]models.EntityDefinition
}

// New validates the definitions and builds a registry. The inputs are copied.
func New(tables map[string][]models.FilterDefinition, entities map[string]models.EntityDefinition) (*Registry, error) {
	validate := validator.New()

	r := &Registry{
		tables:   make(map[string][]models.FilterDefinition, len(tables)),
		index:    make(map[string]map[string]models.FilterDefinition, len(tables)),
		entities: make(map[string]models.EntityDefinition, len(entities)),
	}

	for entityType, def := range entities {
		if entityType == "" {
			return nil, fmt.Errorf("entity type cannot be empty")
		}
		if err := validate.Struct(def); err != nil {
			return nil, fmt.Errorf("entity %s: %w", entityType, err)
		}
		r.entities[entityType] = copyEntity(def)
	}

	for tableID, defs := range tables {
		if tableID == "" {
			return nil, fmt.Errorf("table id cannot be empty")
		}
		columns := make([]models.FilterDefinition, 0, len(defs))
		byKey := make(map[string]models.FilterDefinition, len(defs))
		for _, def := range defs {
			if err := validate.Struct(def); err != nil {
				return nil, fmt.Errorf("table %s column %q: %w", tableID, def.ColumnKey, err)
			}
			if !def.FilterType.Valid() {
				return nil, fmt.Errorf("table %s column %s: %w: %s", tableID, def.ColumnKey, ErrUnknownFilterType, def.FilterType)
			}
			if _, exists := byKey[def.ColumnKey]; exists {
				return nil, fmt.Errorf("table %s: %w: %s", tableID, ErrDuplicateColumn, def.ColumnKey)
			}
			if def.EntityType != "" {
				if _, ok := r.entities[def.EntityType]; !ok {
					return nil, fmt.Errorf("table %s column %s: %w: %s", tableID, def.ColumnKey, ErrUnknownEntity, def.EntityType)
				}
			}
			def = copyDefinition(def)
			columns = append(columns, def)
			byKey[def.ColumnKey] = def
		}
		r.tables[tableID] = columns
		r.index[tableID] = byKey
	}

	return r, nil
}

// Parse builds a registry from YAML
func Parse(data []byte) (*Registry, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	return New(file.Tables, file.Entities)
}

// Load reads a registry YAML file
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	return Parse(data)
}

// Definitions returns the filter definitions of a table in configuration order.
// An unknown table has zero definitions.
func (r *Registry) Definitions(tableID string) []models.FilterDefinition {
	if r == nil {
		return nil
	}
	defs := r.tables[tableID]
	out := make([]models.FilterDefinition, len(defs))
	copy(out, defs)
	return out
}

// Lookup returns the definition of one column
func (r *Registry) Lookup(tableID, columnKey string) (models.FilterDefinition, bool) {
	if r == nil || tableID == "" {
		return models.FilterDefinition{}, false
	}
	def, ok := r.index[tableID][columnKey]
	return def, ok
}

// FilterType returns the registered filter type of a column
func (r *Registry) FilterType(tableID, columnKey string) (models.FilterType, bool) {
	def, ok := r.Lookup(tableID, columnKey)
	if !ok {
		return "", false
	}
	return def.FilterType, true
}

// HasTable reports whether any definitions are registered for tableID
func (r *Registry) HasTable(tableID string) bool {
	if r == nil {
		return false
	}
	_, ok := r.tables[tableID]
	return ok
}

// Tables returns the registered table ids, sorted
func (r *Registry) Tables() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.tables))
	for id := range r.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Entities returns a copy of the entity definitions
func (r *Registry) Entities() map[string]models.EntityDefinition {
	out := make(map[string]models.EntityDefinition)
	if r == nil {
		return out
	}
	for k, v := range r.entities {
		out[k] = copyEntity(v)
	}
	return out
}

func copyDefinition(def models.FilterDefinition) models.FilterDefinition {
	if def.Options != nil {
		opts := make([]models.Option, len(def.Options))
		copy(opts, def.Options)
		def.Options = opts
	}
	return def
}

func copyEntity(def models.EntityDefinition) models.EntityDefinition {
	if def.RowLabelFields != nil {
		fields := make(map[string]string, len(def.RowLabelFields))
		for k, v := range def.RowLabelFields {
			fields[k] = v
		}
		def.RowLabelFields = fields
	}
	return def
}
