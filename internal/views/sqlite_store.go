package views

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

//go:embed schema.sql
var schemaSQL string

const viewColumns = `id, table_id, name, filters, filter_mode, sorting, group_by,
       page_size, is_default, created_at, updated_at`

// SQLiteStore keeps views in a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and creates the schema
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create views directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open views database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create views schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanView(row scanner) (models.View, error) {
	var (
		v                          models.View
		filters, sorting, groupBy  string
		createdAt, updatedAt, mode string
	)
	err := row.Scan(
		&v.ID,
		&v.TableID,
		&v.Name,
		&filters,
		&mode,
		&sorting,
		&groupBy,
		&v.PageSize,
		&v.IsDefault,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return models.View{}, err
	}

	v.FilterMode = models.FilterMode(mode)
	if err := json.Unmarshal([]byte(filters), &v.Filters); err != nil {
		return models.View{}, fmt.Errorf("failed to decode filters of view %s: %w", v.ID, err)
	}
	normalizeFilters(v.Filters)
	if err := json.Unmarshal([]byte(sorting), &v.Sorting); err != nil {
		return models.View{}, fmt.Errorf("failed to decode sorting of view %s: %w", v.ID, err)
	}
	if err := json.Unmarshal([]byte(groupBy), &v.GroupBy); err != nil {
		return models.View{}, fmt.Errorf("failed to decode grouping of view %s: %w", v.ID, err)
	}
	v.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	v.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return v, nil
}

// List returns the views of tableID ordered by name
func (s *SQLiteStore) List(tableID string) ([]models.View, error) {
	rows, err := s.db.Query(`
		SELECT `+viewColumns+`
		FROM table_views
		WHERE table_id = ?
		ORDER BY name COLLATE NOCASE`, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.View{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Get returns a view by ID
func (s *SQLiteStore) Get(id string) (models.View, error) {
	row := s.db.QueryRow(`SELECT `+viewColumns+` FROM table_views WHERE id = ?`, id)
	v, err := scanView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.View{}, notFound(id)
	}
	return v, err
}

// Default returns the default view of tableID
func (s *SQLiteStore) Default(tableID string) (models.View, error) {
	row := s.db.QueryRow(`
		SELECT `+viewColumns+`
		FROM table_views
		WHERE table_id = ? AND is_default = 1
		LIMIT 1`, tableID)
	v, err := scanView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.View{}, notFound("default view of " + tableID)
	}
	return v, err
}

// Save inserts or updates view
func (s *SQLiteStore) Save(view models.View) (models.View, error) {
	if err := validateView(&view); err != nil {
		return models.View{}, err
	}

	filters := view.Filters
	if filters == nil {
		filters = []models.ServerTableFilter{}
	}
	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return models.View{}, fmt.Errorf("failed to encode filters: %w", err)
	}
	sorting := view.Sorting
	if sorting == nil {
		sorting = []models.SortSpec{}
	}
	sortingJSON, err := json.Marshal(sorting)
	if err != nil {
		return models.View{}, fmt.Errorf("failed to encode sorting: %w", err)
	}
	groupJSON, err := json.Marshal(view.GroupBy)
	if err != nil {
		return models.View{}, fmt.Errorf("failed to encode grouping: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.View{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var clash int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM table_views
		WHERE table_id = ? AND name = ? COLLATE NOCASE AND id <> ?`,
		view.TableID, view.Name, view.ID).Scan(&clash)
	if err != nil {
		return models.View{}, fmt.Errorf("failed to check view name: %w", err)
	}
	if clash > 0 {
		return models.View{}, duplicateName(view.Name, view.TableID)
	}

	now := time.Now().UTC()
	if view.ID == "" {
		view.ID = uuid.New().String()
	} else {
		var created string
		err := tx.QueryRow(`SELECT created_at FROM table_views WHERE id = ?`, view.ID).Scan(&created)
		switch {
		case err == nil:
			view.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		case !errors.Is(err, sql.ErrNoRows):
			return models.View{}, fmt.Errorf("failed to look up view: %w", err)
		}
	}
	if view.CreatedAt.IsZero() {
		view.CreatedAt = now
	}
	view.UpdatedAt = now

	if view.IsDefault {
		_, err := tx.Exec(`UPDATE table_views SET is_default = 0 WHERE table_id = ? AND id <> ?`,
			view.TableID, view.ID)
		if err != nil {
			return models.View{}, fmt.Errorf("failed to reset default view: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO table_views
		(id, table_id, name, filters, filter_mode, sorting, group_by, page_size, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			table_id = excluded.table_id,
			name = excluded.name,
			filters = excluded.filters,
			filter_mode = excluded.filter_mode,
			sorting = excluded.sorting,
			group_by = excluded.group_by,
			page_size = excluded.page_size,
			is_default = excluded.is_default,
			updated_at = excluded.updated_at`,
		view.ID,
		view.TableID,
		view.Name,
		string(filtersJSON),
		string(view.FilterMode),
		string(sortingJSON),
		string(groupJSON),
		view.PageSize,
		view.IsDefault,
		view.CreatedAt.Format(time.RFC3339Nano),
		view.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return models.View{}, fmt.Errorf("failed to save view: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.View{}, fmt.Errorf("failed to commit view: %w", err)
	}
	return view, nil
}

// Delete deletes a view by ID
func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM table_views WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
