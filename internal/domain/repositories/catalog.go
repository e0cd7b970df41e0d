// Package repositories defines the repository interfaces for catalog and
// dialogue entities. These repositories abstract the data persistence
// details, ensuring the core application is clean and decoupled from the
// database.
package repositories

import (
	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
)

type ProductRepository interface {
	FindByID(id string) (*catalog.Product, error)
	FindByIDs(ids []string) ([]*catalog.Product, error)
	FindAll() ([]*catalog.Product, error)
	SearchByText(query string, limit int) ([]*catalog.Product, error)
	Store(product *catalog.Product) error
	Update(product *catalog.Product) error
	Delete(id string) error
}

type CategoryRepository interface {
	FindByID(id string) (*catalog.Category, error)
	FindAll() ([]*catalog.Category, error)
	Store(category *catalog.Category) error
	Update(category *catalog.Category) error
	Delete(id string) error
}

type StoreRepository interface {
	FindByID(id string) (*catalog.Store, error)
	FindByIDs(ids []string) ([]*catalog.Store, error)
	FindAll() ([]*catalog.Store, error)
	Store(store *catalog.Store) error
	Update(store *catalog.Store) error
	UpdateCoordinates(id string, lat, lng *float64) error
	Delete(id string) error
}

type OfferRepository interface {
	FindByID(id string) (*catalog.Offer, error)
	FindAvailableByProductIDs(productIDs []string) ([]*catalog.Offer, error)
	FindByStoreID(storeID string) ([]*catalog.Offer, error)
	Store(offer *catalog.Offer) error
	Update(offer *catalog.Offer) error
	Delete(id string) error
}
