package entity

import (
	"net/url"
	"sort"
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/logger"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

const idPlaceholder = ":id"

// Resolver answers lookups over the entity reference configuration.
// It decides nothing about caching or when to resolve; that belongs to the renderer.
type Resolver struct {
	entities map[string]models.EntityDefinition
	log      *logger.Logger
}

// NewResolver creates a resolver over entities. The map is copied; log may be nil.
func NewResolver(entities map[string]models.EntityDefinition, log *logger.Logger) *Resolver {
	copied := make(map[string]models.EntityDefinition, len(entities))
	for k, v := range entities {
		copied[k] = v
	}
	return &Resolver{entities: copied, log: log}
}

// Definition returns the definition of entityType
func (r *Resolver) Definition(entityType string) (models.EntityDefinition, bool) {
	def, ok := r.entities[entityType]
	return def, ok
}

// HasDefinition reports whether entityType is configured
func (r *Resolver) HasDefinition(entityType string) bool {
	_, ok := r.entities[entityType]
	return ok
}

// EntityTypes returns the configured entity types, sorted
func (r *Resolver) EntityTypes() []string {
	types := make([]string, 0, len(r.entities))
	for k := range r.entities {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}

// LabelFromRowField returns the row field that already carries a joined label for
// columnKey, letting the caller skip a network resolve.
func (r *Resolver) LabelFromRowField(entityType, columnKey string) (string, bool) {
	def, ok := r.entities[entityType]
	if !ok {
		return "", false
	}
	field, ok := def.RowLabelFields[columnKey]
	if !ok || field == "" {
		return "", false
	}
	return field, true
}

// DetailPath builds the detail page path for id, or reports false when the entity has none
func (r *Resolver) DetailPath(entityType, id string) (string, bool) {
	def, ok := r.entities[entityType]
	if !ok || def.DetailPath == "" {
		return "", false
	}
	return fillID(def.DetailPath, id), true
}

// RowLabel reads a pre-joined label from row, if the entity maps columnKey to a row field
func (r *Resolver) RowLabel(entityType, columnKey string, row models.Row) (string, bool) {
	field, ok := r.LabelFromRowField(entityType, columnKey)
	if !ok {
		return "", false
	}
	label, ok := scalarString(row[field])
	if !ok || label == "" {
		return "", false
	}
	return label, true
}

func fillID(template, id string) string {
	return strings.ReplaceAll(template, idPlaceholder, url.PathEscape(id))
}
