// Package catalog provides the SQLite repositories for products, categories,
// stores, and offers.
package catalog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

type ProductRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewProductRepository(db *sql.DB, logger *logging.ChanneledLogger) *ProductRepository {
	return &ProductRepository{db: db, logger: logger}
}

const productColumns = `id, name, description, sku, brand_name, package_info, category_id, image_url`

func (r *ProductRepository) FindByID(id string) (*catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	start := time.Now()
	row := r.db.QueryRow(query, id)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan product", "error", err.Error(), "id", id)
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	r.trackQuery(query, start)
	return product, nil
}

func (r *ProductRepository) FindByIDs(ids []string) ([]*catalog.Product, error) {
	if len(ids) == 0 {
		return []*catalog.Product{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT ` + productColumns + ` FROM products WHERE id IN (` + placeholders + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	start := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to query products by ids", "error", err.Error())
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	r.trackQuery(query, start)
	return products, nil
}

func (r *ProductRepository) FindAll() ([]*catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`

	start := time.Now()
	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to query products", "error", err.Error())
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	r.trackQuery(query, start)
	return products, nil
}

// SearchByText matches free text against product name, brand, description,
// and SKU. A blank query matches nothing.
func (r *ProductRepository) SearchByText(text string, limit int) ([]*catalog.Product, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*catalog.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products
		WHERE name LIKE ? OR brand_name LIKE ? OR description LIKE ? OR sku LIKE ?
		ORDER BY name LIMIT ?`

	pattern := "%" + text + "%"

	start := time.Now()
	rows, err := r.db.Query(query, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		r.logger.Database().Error("Failed to search products", "error", err.Error(), "text", text)
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	r.trackQuery(query, start)
	return products, nil
}

func (r *ProductRepository) Store(product *catalog.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(query, product.ID, product.Name, product.Description, product.SKU,
		product.BrandName, product.PackageInfo, product.CategoryID, product.ImageURL)
	if err != nil {
		r.logger.Database().Error("Product insert failed", "error", err.Error(), "id", product.ID)
		return fmt.Errorf("failed to insert product: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *ProductRepository) Update(product *catalog.Product) error {
	query := `UPDATE products SET name = ?, description = ?, sku = ?, brand_name = ?,
		package_info = ?, category_id = ?, image_url = ? WHERE id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, product.Name, product.Description, product.SKU, product.BrandName,
		product.PackageInfo, product.CategoryID, product.ImageURL, product.ID)
	if err != nil {
		r.logger.Database().Error("Product update failed", "error", err.Error(), "id", product.ID)
		return fmt.Errorf("failed to update product: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *ProductRepository) Delete(id string) error {
	query := `DELETE FROM products WHERE id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Database().Error("Product delete failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *ProductRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.SKU, &p.BrandName, &p.PackageInfo,
		&p.CategoryID, &p.ImageURL)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]*catalog.Product, error) {
	products := []*catalog.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
