package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalog item as served by the catalog service.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductInput is the payload for creating or updating a catalog item.
type ProductInput struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	ImageURL *string         `json:"imageUrl"`
}

// FilterProducts keeps products whose name contains term, ignoring case.
// An empty term keeps everything.
func FilterProducts(products []Product, term string) []Product {
	term = strings.TrimSpace(term)
	if term == "" {
		return products
	}
	needle := strings.ToLower(term)
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
