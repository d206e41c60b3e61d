// Package views persists named table views.
package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

var (
	ErrViewNotFound      = errors.New("view not found")
	ErrDuplicateViewName = errors.New("a view with this name already exists")
	ErrInvalidView       = errors.New("invalid view")
)

// Store persists views. Names are unique per table, compared case-insensitively.
type Store interface {
	// List returns the views of tableID ordered by name
	List(tableID string) ([]models.View, error)
	Get(id string) (models.View, error)
	// Default returns the view flagged as default for tableID, or ErrViewNotFound
	Default(tableID string) (models.View, error)
	// Save inserts a view without an ID and updates an existing one. It returns
	// the stored view with ID and timestamps filled in.
	Save(view models.View) (models.View, error)
	Delete(id string) error
	Close() error
}

func validateView(v *models.View) error {
	v.Name = strings.TrimSpace(v.Name)
	v.TableID = strings.TrimSpace(v.TableID)
	if v.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidView)
	}
	if v.TableID == "" {
		return fmt.Errorf("%w: table id cannot be empty", ErrInvalidView)
	}
	if v.FilterMode != "" && !v.FilterMode.Valid() {
		return fmt.Errorf("%w: filter mode %q", ErrInvalidView, v.FilterMode)
	}
	v.FilterMode = v.FilterMode.OrDefault()
	return nil
}

func duplicateName(name, tableID string) error {
	return fmt.Errorf("%w: %q in %s (names are case-insensitive)", ErrDuplicateViewName, name, tableID)
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrViewNotFound, id)
}

// normalizeFilters restores the value shapes the filter pipeline produces after
// a decoder has turned them into generic ones: []any of strings becomes []string
// and integers become float64.
func normalizeFilters(filters []models.ServerTableFilter) {
	for i := range filters {
		filters[i].Value = normalizeValue(filters[i].Value)
	}
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return v
			}
			items = append(items, s)
		}
		return items
	case int:
		return float64(val)
	case int64:
		return float64(val)
	default:
		return v
	}
}
