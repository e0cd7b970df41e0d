package services

import (
	"fmt"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/domain/repositories"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/internal/infrastructure/security"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// CatalogService manages the product/store/offer catalog and resolves the
// free-text candidate sets the dialogue flow narrows down.
type CatalogService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	stores     repositories.StoreRepository
	offers     repositories.OfferRepository
	logger     *logging.ChanneledLogger
}

func NewCatalogService(
	products repositories.ProductRepository,
	categories repositories.CategoryRepository,
	stores repositories.StoreRepository,
	offers repositories.OfferRepository,
	logger *logging.ChanneledLogger,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		stores:     stores,
		offers:     offers,
		logger:     logger,
	}
}

// ResolveCandidates turns free text into the initial candidate product set,
// capped at the configured maximum. Blank text resolves to an empty set.
func (s *CatalogService) ResolveCandidates(text string) ([]*catalog.Product, error) {
	products, err := s.products.SearchByText(text, config.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve candidates: %w", err)
	}

	s.logger.Search().Debug("Candidates resolved", "query", text, "count", len(products))
	return products, nil
}

// GetProductsByIDs bulk-loads products, preserving only those that exist.
func (s *CatalogService) GetProductsByIDs(ids []string) ([]*catalog.Product, error) {
	return s.products.FindByIDs(ids)
}

func (s *CatalogService) GetProduct(id string) (*catalog.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product ID cannot be empty")
	}
	return s.products.FindByID(id)
}

func (s *CatalogService) ListProducts() ([]*catalog.Product, error) {
	return s.products.FindAll()
}

func (s *CatalogService) CreateProduct(product *catalog.Product) (*catalog.Product, error) {
	if product.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if product.ID == "" {
		product.ID = security.GenerateULID()
	}
	if err := s.products.Store(product); err != nil {
		return nil, err
	}
	s.logger.Catalog().Info("Product created", "id", product.ID, "name", product.Name)
	return product, nil
}

func (s *CatalogService) UpdateProduct(product *catalog.Product) error {
	existing, err := s.products.FindByID(product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("product %s not found", product.ID)
	}
	return s.products.Update(product)
}

func (s *CatalogService) DeleteProduct(id string) error {
	return s.products.Delete(id)
}

func (s *CatalogService) ListCategories() ([]*catalog.Category, error) {
	return s.categories.FindAll()
}

func (s *CatalogService) CreateCategory(category *catalog.Category) (*catalog.Category, error) {
	if category.Name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if category.ID == "" {
		category.ID = security.GenerateULID()
	}
	if err := s.categories.Store(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) GetStore(id string) (*catalog.Store, error) {
	if id == "" {
		return nil, fmt.Errorf("store ID cannot be empty")
	}
	return s.stores.FindByID(id)
}

func (s *CatalogService) ListStores() ([]*catalog.Store, error) {
	return s.stores.FindAll()
}

func (s *CatalogService) CreateStore(store *catalog.Store) (*catalog.Store, error) {
	if store.Name == "" {
		return nil, fmt.Errorf("store name is required")
	}
	if store.ID == "" {
		store.ID = security.GenerateULID()
	}
	if err := s.stores.Store(store); err != nil {
		return nil, err
	}
	s.logger.Catalog().Info("Store created", "id", store.ID, "name", store.Name)
	return store, nil
}

func (s *CatalogService) UpdateStore(store *catalog.Store) error {
	existing, err := s.stores.FindByID(store.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("store %s not found", store.ID)
	}
	return s.stores.Update(store)
}

func (s *CatalogService) DeleteStore(id string) error {
	return s.stores.Delete(id)
}

func (s *CatalogService) GetOffer(id string) (*catalog.Offer, error) {
	if id == "" {
		return nil, fmt.Errorf("offer ID cannot be empty")
	}
	return s.offers.FindByID(id)
}

func (s *CatalogService) CreateOffer(offer *catalog.Offer) (*catalog.Offer, error) {
	product, err := s.products.FindByID(offer.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %s not found", offer.ProductID)
	}
	store, err := s.stores.FindByID(offer.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("store %s not found", offer.StoreID)
	}

	if offer.ID == "" {
		offer.ID = security.GenerateULID()
	}
	if offer.Currency == "" {
		offer.Currency = "RUB"
	}
	if err := s.offers.Store(offer); err != nil {
		return nil, err
	}
	s.logger.Catalog().Info("Offer created", "id", offer.ID, "productId", offer.ProductID, "storeId", offer.StoreID)
	return offer, nil
}

func (s *CatalogService) UpdateOffer(offer *catalog.Offer) error {
	existing, err := s.offers.FindByID(offer.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("offer %s not found", offer.ID)
	}
	return s.offers.Update(offer)
}

func (s *CatalogService) DeleteOffer(id string) error {
	return s.offers.Delete(id)
}
