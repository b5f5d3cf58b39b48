package domain

import "context"

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog item as served by the remote API. Values are treated
// as immutable once loaded.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Rating      Rating  `json:"rating"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// --- Interfaces ---

// CatalogLoader fetches the read-only catalog from the remote store API.
// Both calls are independent and may be issued concurrently.
type CatalogLoader interface {
	LoadProducts(ctx context.Context) ([]Product, error)
	LoadCategories(ctx context.Context) ([]string, error)
}
