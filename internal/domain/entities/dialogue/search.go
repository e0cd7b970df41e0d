package dialogue

import "time"

// GeoPoint is a WGS84 coordinate supplied by the customer.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchRequest is a materialized search execution, created once the intent
// has converged on a single candidate (conversational flow) or on demand
// (direct flow).
type SearchRequest struct {
	ID             string    `json:"requestId"`
	ConversationID string    `json:"conversationId"`
	IntentID       string    `json:"intentId"`
	Geo            GeoPoint  `json:"geo"`
	RadiusMeters   float64   `json:"radiusMeters"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// OfferStore is the store view embedded in a result offer.
type OfferStore struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	LocationLink   string  `json:"location"`
	DistanceMeters float64 `json:"distanceMeters"`
}

// ResultOffer is one in-stock, in-radius offer attached to a result entry.
type ResultOffer struct {
	OfferID     string     `json:"offerId"`
	PriceCents  int64      `json:"priceCents"`
	Currency    string     `json:"currency"`
	Quantity    int        `json:"quantity"`
	IsAvailable bool       `json:"isAvailable"`
	Store       OfferStore `json:"store"`
}

// ResultProduct is the product view embedded in a result entry.
type ResultProduct struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	SKU          string  `json:"sku"`
	BrandName    string  `json:"brandName"`
	PackageInfo  string  `json:"packageInfo"`
	CategoryID   *string `json:"categoryId,omitempty"`
	CategoryName *string `json:"categoryName,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
}

// ResultItem pairs a product with its surviving offers, sorted ascending by
// distance.
type ResultItem struct {
	Product ResultProduct `json:"product"`
	Offers  []ResultOffer `json:"offers"`
}

// SearchResult is the computed answer to a SearchRequest.
type SearchResult struct {
	ID        string       `json:"resultId"`
	RequestID string       `json:"requestId"`
	Items     []ResultItem `json:"items"`
	CreatedAt time.Time    `json:"createdAt"`
	ExpiresAt time.Time    `json:"expiresAt"`
}
