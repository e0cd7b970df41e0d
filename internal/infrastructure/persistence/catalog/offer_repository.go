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

type OfferRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewOfferRepository(db *sql.DB, logger *logging.ChanneledLogger) *OfferRepository {
	return &OfferRepository{db: db, logger: logger}
}

const offerColumns = `id, product_id, store_id, price_cents, currency, quantity, is_available`

func (r *OfferRepository) FindByID(id string) (*catalog.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = ?`

	start := time.Now()
	offer, err := scanOffer(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan offer", "error", err.Error(), "id", id)
		return nil, fmt.Errorf("failed to scan offer: %w", err)
	}

	r.trackQuery(query, start)
	return offer, nil
}

// FindAvailableByProductIDs returns in-stock offers for any of the given
// products. Availability means the flag is set and quantity is positive.
func (r *OfferRepository) FindAvailableByProductIDs(productIDs []string) ([]*catalog.Offer, error) {
	if len(productIDs) == 0 {
		return []*catalog.Offer{}, nil
	}

	placeholders := strings.Repeat("?,", len(productIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT ` + offerColumns + ` FROM offers
		WHERE product_id IN (` + placeholders + `) AND is_available = 1 AND quantity > 0`

	args := make([]any, len(productIDs))
	for i, id := range productIDs {
		args[i] = id
	}

	start := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to query available offers", "error", err.Error())
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	offers, err := collectOffers(rows)
	if err != nil {
		return nil, err
	}

	r.trackQuery(query, start)
	return offers, nil
}

func (r *OfferRepository) FindByStoreID(storeID string) ([]*catalog.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE store_id = ?`

	start := time.Now()
	rows, err := r.db.Query(query, storeID)
	if err != nil {
		r.logger.Database().Error("Failed to query offers by store", "error", err.Error(), "storeId", storeID)
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	offers, err := collectOffers(rows)
	if err != nil {
		return nil, err
	}

	r.trackQuery(query, start)
	return offers, nil
}

func (r *OfferRepository) Store(offer *catalog.Offer) error {
	query := `INSERT INTO offers (` + offerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(query, offer.ID, offer.ProductID, offer.StoreID, offer.PriceCents,
		offer.Currency, offer.Quantity, offer.IsAvailable)
	if err != nil {
		r.logger.Database().Error("Offer insert failed", "error", err.Error(), "id", offer.ID)
		return fmt.Errorf("failed to insert offer: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *OfferRepository) Update(offer *catalog.Offer) error {
	query := `UPDATE offers SET product_id = ?, store_id = ?, price_cents = ?, currency = ?,
		quantity = ?, is_available = ? WHERE id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, offer.ProductID, offer.StoreID, offer.PriceCents, offer.Currency,
		offer.Quantity, offer.IsAvailable, offer.ID)
	if err != nil {
		r.logger.Database().Error("Offer update failed", "error", err.Error(), "id", offer.ID)
		return fmt.Errorf("failed to update offer: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *OfferRepository) Delete(id string) error {
	query := `DELETE FROM offers WHERE id = ?`

	start := time.Now()
	if _, err := r.db.Exec(query, id); err != nil {
		r.logger.Database().Error("Offer delete failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to delete offer: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *OfferRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}

func scanOffer(row rowScanner) (*catalog.Offer, error) {
	var o catalog.Offer
	err := row.Scan(&o.ID, &o.ProductID, &o.StoreID, &o.PriceCents, &o.Currency, &o.Quantity, &o.IsAvailable)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOffers(rows *sql.Rows) ([]*catalog.Offer, error) {
	offers := []*catalog.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}
