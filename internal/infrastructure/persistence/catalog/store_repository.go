package catalog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/infrastructure/caching"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

type StoreRepository struct {
	db     *sql.DB
	coords *caching.StoreCoordsCache
	logger *logging.ChanneledLogger
}

func NewStoreRepository(db *sql.DB, coords *caching.StoreCoordsCache, logger *logging.ChanneledLogger) *StoreRepository {
	return &StoreRepository{db: db, coords: coords, logger: logger}
}

const storeColumns = `id, name, address, location_link, location_lat, location_lng`

func (r *StoreRepository) FindByID(id string) (*catalog.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = ?`

	start := time.Now()
	store, err := scanStore(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan store", "error", err.Error(), "id", id)
		return nil, fmt.Errorf("failed to scan store: %w", err)
	}

	r.trackQuery(query, start)
	return store, nil
}

func (r *StoreRepository) FindByIDs(ids []string) ([]*catalog.Store, error) {
	if len(ids) == 0 {
		return []*catalog.Store{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id IN (` + placeholders + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	start := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to query stores by ids", "error", err.Error())
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	stores, err := collectStores(rows)
	if err != nil {
		return nil, err
	}

	r.trackQuery(query, start)
	return stores, nil
}

func (r *StoreRepository) FindAll() ([]*catalog.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores ORDER BY name`

	start := time.Now()
	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to query stores", "error", err.Error())
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	stores, err := collectStores(rows)
	if err != nil {
		return nil, err
	}

	r.trackQuery(query, start)
	return stores, nil
}

func (r *StoreRepository) Store(store *catalog.Store) error {
	query := `INSERT INTO stores (` + storeColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(query, store.ID, store.Name, store.Address, store.LocationLink,
		store.Lat, store.Lng)
	if err != nil {
		r.logger.Database().Error("Store insert failed", "error", err.Error(), "id", store.ID)
		return fmt.Errorf("failed to insert store: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

// Update rewrites the store row. When the location link changed, the cached
// coordinates (row columns and in-memory entry) are reset so the next search
// re-resolves the link.
func (r *StoreRepository) Update(store *catalog.Store) error {
	existing, err := r.FindByID(store.ID)
	if err != nil {
		return err
	}

	linkChanged := existing != nil && existing.LocationLink != store.LocationLink
	if linkChanged {
		store.Lat = nil
		store.Lng = nil
	}

	query := `UPDATE stores SET name = ?, address = ?, location_link = ?,
		location_lat = ?, location_lng = ? WHERE id = ?`

	start := time.Now()
	_, err = r.db.Exec(query, store.Name, store.Address, store.LocationLink,
		store.Lat, store.Lng, store.ID)
	if err != nil {
		r.logger.Database().Error("Store update failed", "error", err.Error(), "id", store.ID)
		return fmt.Errorf("failed to update store: %w", err)
	}

	if linkChanged {
		r.coords.Invalidate(store.ID)
		r.logger.Geo().Debug("Store location link changed, coordinates invalidated", "id", store.ID)
	}

	r.trackQuery(query, start)
	return nil
}

// UpdateCoordinates writes through a geocode resolution to the store row.
func (r *StoreRepository) UpdateCoordinates(id string, lat, lng *float64) error {
	query := `UPDATE stores SET location_lat = ?, location_lng = ? WHERE id = ?`

	start := time.Now()
	if _, err := r.db.Exec(query, lat, lng, id); err != nil {
		r.logger.Database().Error("Store coordinate update failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to update store coordinates: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *StoreRepository) Delete(id string) error {
	query := `DELETE FROM stores WHERE id = ?`

	start := time.Now()
	if _, err := r.db.Exec(query, id); err != nil {
		r.logger.Database().Error("Store delete failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to delete store: %w", err)
	}

	r.coords.Invalidate(id)
	r.trackQuery(query, start)
	return nil
}

func (r *StoreRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}

func scanStore(row rowScanner) (*catalog.Store, error) {
	var s catalog.Store
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.LocationLink, &s.Lat, &s.Lng)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectStores(rows *sql.Rows) ([]*catalog.Store, error) {
	stores := []*catalog.Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}
