// Package catalog contains the marketplace entities the conversational
// search joins over: products, stores, offers, and categories.
package catalog

// Product is a sellable item. BrandName and PackageInfo are denormalized
// onto the product because they are the two clarification slots.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	SKU         string  `json:"sku"`
	BrandName   string  `json:"brandName"`
	PackageInfo string  `json:"packageInfo"`
	CategoryID  *string `json:"categoryId,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// Category groups products for display purposes.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Store is a physical outlet. LocationLink is a map-service URL (possibly
// shortened); Lat/Lng are the write-through geocode cache and are reset
// whenever the link changes.
type Store struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	LocationLink string   `json:"location"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
}

// Offer is a store's priced, quantity-bearing availability record for a
// product.
type Offer struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	StoreID     string `json:"storeId"`
	PriceCents  int64  `json:"priceCents"`
	Currency    string `json:"currency"`
	Quantity    int    `json:"quantity"`
	IsAvailable bool   `json:"isAvailable"`
}
