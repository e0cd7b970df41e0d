package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/domain/repositories"
	"github.com/nearcart/nearcart-go/internal/infrastructure/caching"
	"github.com/nearcart/nearcart-go/internal/infrastructure/geo"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/internal/infrastructure/security"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// Geocoder resolves a store location link to coordinates, nil when the link
// cannot be resolved.
type Geocoder interface {
	Resolve(ctx context.Context, link string) *geo.Coordinates
}

// SearchService materializes search requests and aggregates offers around
// the customer. One aggregator serves both the conversational and the direct
// flow; the radius is always supplied by the caller.
type SearchService struct {
	products repositories.ProductRepository
	stores   repositories.StoreRepository
	offers   repositories.OfferRepository
	requests repositories.SearchRequestRepository
	results  repositories.SearchResultRepository
	coords   *caching.StoreCoordsCache
	geocoder Geocoder
	logger   *logging.ChanneledLogger
}

func NewSearchService(
	products repositories.ProductRepository,
	stores repositories.StoreRepository,
	offers repositories.OfferRepository,
	requests repositories.SearchRequestRepository,
	results repositories.SearchResultRepository,
	coords *caching.StoreCoordsCache,
	geocoder Geocoder,
	logger *logging.ChanneledLogger,
) *SearchService {
	return &SearchService{
		products: products,
		stores:   stores,
		offers:   offers,
		requests: requests,
		results:  results,
		coords:   coords,
		geocoder: geocoder,
		logger:   logger,
	}
}

// Execute materializes a search request for the given candidate products and
// computes its result: per product, the in-stock offers whose store lies
// within the radius, sorted nearest first. Products with no surviving offers
// are dropped entirely.
func (s *SearchService) Execute(ctx context.Context, conversationID, intentID string, candidateIDs []string, point dialogue.GeoPoint, radiusMeters float64) (*dialogue.SearchRequest, *dialogue.SearchResult, error) {
	if radiusMeters <= 0 {
		return nil, nil, fmt.Errorf("search radius must be positive")
	}

	now := time.Now().UTC()
	request := &dialogue.SearchRequest{
		ID:             security.GenerateULID(),
		ConversationID: conversationID,
		IntentID:       intentID,
		Geo:            point,
		RadiusMeters:   radiusMeters,
		CreatedAt:      now,
		ExpiresAt:      now.Add(config.ResultTTL),
	}
	if err := s.requests.Store(request); err != nil {
		return nil, nil, err
	}

	items, err := s.aggregate(ctx, candidateIDs, point, radiusMeters)
	if err != nil {
		return nil, nil, err
	}

	result := &dialogue.SearchResult{
		ID:        security.GenerateULID(),
		RequestID: request.ID,
		Items:     items,
		CreatedAt: now,
		ExpiresAt: now.Add(config.ResultTTL),
	}
	if err := s.results.Store(result); err != nil {
		return nil, nil, err
	}

	s.logger.Search().Info("Search executed", "requestId", request.ID,
		"candidates", len(candidateIDs), "items", len(items), "radius", radiusMeters)
	return request, result, nil
}

// GetResult returns a stored result or nil when missing/expired.
func (s *SearchService) GetResult(resultID string) (*dialogue.SearchResult, error) {
	if resultID == "" {
		return nil, nil
	}
	return s.results.FindByID(resultID)
}

// GetResultByRequestID returns the latest result computed for a request.
func (s *SearchService) GetResultByRequestID(requestID string) (*dialogue.SearchResult, error) {
	if requestID == "" {
		return nil, nil
	}
	return s.results.FindByRequestID(requestID)
}

// GetRequest returns a stored request or nil when missing/expired.
func (s *SearchService) GetRequest(requestID string) (*dialogue.SearchRequest, error) {
	if requestID == "" {
		return nil, nil
	}
	return s.requests.FindByID(requestID)
}

func (s *SearchService) aggregate(ctx context.Context, candidateIDs []string, point dialogue.GeoPoint, radiusMeters float64) ([]dialogue.ResultItem, error) {
	products, err := s.products.FindByIDs(candidateIDs)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []dialogue.ResultItem{}, nil
	}

	productByID := make(map[string]*catalog.Product, len(products))
	orderedIDs := make([]string, 0, len(products))
	for _, p := range products {
		productByID[p.ID] = p
		orderedIDs = append(orderedIDs, p.ID)
	}

	offers, err := s.offers.FindAvailableByProductIDs(orderedIDs)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return []dialogue.ResultItem{}, nil
	}

	storeIDs := distinctStoreIDs(offers)
	stores, err := s.stores.FindByIDs(storeIDs)
	if err != nil {
		return nil, err
	}

	located := s.locateStores(ctx, stores)

	offersByProduct := make(map[string][]dialogue.ResultOffer)
	for _, offer := range offers {
		loc, ok := located[offer.StoreID]
		if !ok {
			continue
		}
		distance := geo.Distance(point.Lat, point.Lng, loc.lat, loc.lng)
		if distance > radiusMeters {
			continue
		}
		offersByProduct[offer.ProductID] = append(offersByProduct[offer.ProductID], dialogue.ResultOffer{
			OfferID:     offer.ID,
			PriceCents:  offer.PriceCents,
			Currency:    offer.Currency,
			Quantity:    offer.Quantity,
			IsAvailable: offer.IsAvailable,
			Store: dialogue.OfferStore{
				ID:             loc.store.ID,
				Name:           loc.store.Name,
				Address:        loc.store.Address,
				LocationLink:   loc.store.LocationLink,
				DistanceMeters: distance,
			},
		})
	}

	items := []dialogue.ResultItem{}
	for _, productID := range orderedIDs {
		productOffers := offersByProduct[productID]
		if len(productOffers) == 0 {
			continue
		}
		sort.Slice(productOffers, func(i, j int) bool {
			return productOffers[i].Store.DistanceMeters < productOffers[j].Store.DistanceMeters
		})
		p := productByID[productID]
		items = append(items, dialogue.ResultItem{
			Product: dialogue.ResultProduct{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				SKU:         p.SKU,
				BrandName:   p.BrandName,
				PackageInfo: p.PackageInfo,
				CategoryID:  p.CategoryID,
				ImageURL:    p.ImageURL,
			},
			Offers: productOffers,
		})
	}

	return items, nil
}

type locatedStore struct {
	store *catalog.Store
	lat   float64
	lng   float64
}

// locateStores resolves coordinates for each store cache-aside: in-memory
// cache, then the persisted row, then the link geocoder with write-through.
// Stores that cannot be located are excluded from the search.
func (s *SearchService) locateStores(ctx context.Context, stores []*catalog.Store) map[string]locatedStore {
	located := make(map[string]locatedStore, len(stores))

	for _, store := range stores {
		if entry, ok := s.coords.Get(store.ID); ok {
			if entry.Resolved {
				located[store.ID] = locatedStore{store: store, lat: entry.Lat, lng: entry.Lng}
			}
			continue
		}

		if store.Lat != nil && store.Lng != nil {
			s.coords.SetResolved(store.ID, *store.Lat, *store.Lng)
			located[store.ID] = locatedStore{store: store, lat: *store.Lat, lng: *store.Lng}
			continue
		}

		resolved := s.geocoder.Resolve(ctx, store.LocationLink)
		if resolved == nil {
			s.coords.SetUnresolved(store.ID)
			s.logger.Geo().Warn("Store location unresolvable, excluded from search",
				"storeId", store.ID, "link", store.LocationLink)
			continue
		}

		if err := s.stores.UpdateCoordinates(store.ID, &resolved.Lat, &resolved.Lng); err != nil {
			s.logger.Geo().Error("Failed to persist resolved coordinates", "storeId", store.ID, "error", err.Error())
		}
		s.coords.SetResolved(store.ID, resolved.Lat, resolved.Lng)
		located[store.ID] = locatedStore{store: store, lat: resolved.Lat, lng: resolved.Lng}
	}

	return located
}

func distinctStoreIDs(offers []*catalog.Offer) []string {
	seen := make(map[string]bool)
	ids := []string{}
	for _, o := range offers {
		if !seen[o.StoreID] {
			seen[o.StoreID] = true
			ids = append(ids, o.StoreID)
		}
	}
	return ids
}
