package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

type CategoryRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewCategoryRepository(db *sql.DB, logger *logging.ChanneledLogger) *CategoryRepository {
	return &CategoryRepository{db: db, logger: logger}
}

func (r *CategoryRepository) FindByID(id string) (*catalog.Category, error) {
	query := `SELECT id, name FROM categories WHERE id = ?`

	start := time.Now()
	var c catalog.Category
	err := r.db.QueryRow(query, id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan category", "error", err.Error(), "id", id)
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}

	r.trackQuery(query, start)
	return &c, nil
}

func (r *CategoryRepository) FindAll() ([]*catalog.Category, error) {
	query := `SELECT id, name FROM categories ORDER BY name`

	start := time.Now()
	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to query categories", "error", err.Error())
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []*catalog.Category{}
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}

	r.trackQuery(query, start)
	return categories, rows.Err()
}

func (r *CategoryRepository) Store(category *catalog.Category) error {
	query := `INSERT INTO categories (id, name) VALUES (?, ?)`

	start := time.Now()
	if _, err := r.db.Exec(query, category.ID, category.Name); err != nil {
		r.logger.Database().Error("Category insert failed", "error", err.Error(), "id", category.ID)
		return fmt.Errorf("failed to insert category: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *CategoryRepository) Update(category *catalog.Category) error {
	query := `UPDATE categories SET name = ? WHERE id = ?`

	start := time.Now()
	if _, err := r.db.Exec(query, category.Name, category.ID); err != nil {
		r.logger.Database().Error("Category update failed", "error", err.Error(), "id", category.ID)
		return fmt.Errorf("failed to update category: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *CategoryRepository) Delete(id string) error {
	query := `DELETE FROM categories WHERE id = ?`

	start := time.Now()
	if _, err := r.db.Exec(query, id); err != nil {
		r.logger.Database().Error("Category delete failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to delete category: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *CategoryRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}
