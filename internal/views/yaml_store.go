package views

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"gopkg.in/yaml.v3"
)

// YAMLStore keeps all views in a single YAML file
type YAMLStore struct {
	mu    sync.Mutex
	path  string
	views []models.View
}

// NewYAMLStore opens the store at path, loading it if the file exists
func NewYAMLStore(path string) (*YAMLStore, error) {
	s := &YAMLStore{
		path:  path,
		views: []models.View{},
	}

	if _, err := os.Stat(path); err == nil {
		if err := s.load(); err != nil {
			return nil, fmt.Errorf("failed to load views: %w", err)
		}
	}

	return s, nil
}

func (s *YAMLStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read views file: %w", err)
	}

	var views []models.View
	if err := yaml.Unmarshal(data, &views); err != nil {
		return fmt.Errorf("failed to parse views: %w", err)
	}
	for i := range views {
		normalizeFilters(views[i].Filters)
	}
	if views == nil {
		views = []models.View{}
	}
	s.views = views
	return nil
}

func (s *YAMLStore) persist() error {
	data, err := yaml.Marshal(s.views)
	if err != nil {
		return fmt.Errorf("failed to marshal views: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create views directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write views file: %w", err)
	}
	return nil
}

// List returns the views of tableID ordered by name
func (s *YAMLStore) List(tableID string) ([]models.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.View{}
	for _, v := range s.views {
		if v.TableID == tableID {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Get returns a view by ID
func (s *YAMLStore) Get(id string) (models.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.views {
		if v.ID == id {
			return v, nil
		}
	}
	return models.View{}, notFound(id)
}

// Default returns the default view of tableID
func (s *YAMLStore) Default(tableID string) (models.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.views {
		if v.TableID == tableID && v.IsDefault {
			return v, nil
		}
	}
	return models.View{}, notFound("default view of " + tableID)
}

// Save inserts or updates view
func (s *YAMLStore) Save(view models.View) (models.View, error) {
	if err := validateView(&view); err != nil {
		return models.View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.views {
		if v.ID != view.ID && v.TableID == view.TableID && strings.EqualFold(v.Name, view.Name) {
			return models.View{}, duplicateName(view.Name, view.TableID)
		}
	}

	now := time.Now()
	idx := -1
	if view.ID != "" {
		for i, v := range s.views {
			if v.ID == view.ID {
				idx = i
				break
			}
		}
	} else {
		view.ID = uuid.New().String()
	}

	if idx >= 0 {
		view.CreatedAt = s.views[idx].CreatedAt
	} else if view.CreatedAt.IsZero() {
		view.CreatedAt = now
	}
	view.UpdatedAt = now

	previous := make([]models.View, len(s.views))
	copy(previous, s.views)

	if view.IsDefault {
		for i := range s.views {
			if s.views[i].TableID == view.TableID && s.views[i].ID != view.ID {
				s.views[i].IsDefault = false
			}
		}
	}
	if idx >= 0 {
		s.views[idx] = view
	} else {
		s.views = append(s.views, view)
	}

	if err := s.persist(); err != nil {
		s.views = previous
		return models.View{}, fmt.Errorf("failed to save view: %w", err)
	}
	return view, nil
}

// Delete deletes a view by ID
func (s *YAMLStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, v := range s.views {
		if v.ID == id {
			previous := s.views
			s.views = append(append([]models.View{}, s.views[:i]...), s.views[i+1:]...)
			if err := s.persist(); err != nil {
				s.views = previous
				return fmt.Errorf("failed to save views after deletion: %w", err)
			}
			return nil
		}
	}
	return notFound(id)
}

// Close is a no-op; every change is written immediately
func (s *YAMLStore) Close() error {
	return nil
}
