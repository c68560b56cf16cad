package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

// Product is what a caller hands to AddToCart. Only ID, Name, Price and
// ImageURL are captured; Stock is informational.
type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	Stock    int
	ImageURL string
}

func FromDomain(p domain.Product) Product {
	return Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Stock:    p.Stock,
		ImageURL: p.ImageURL,
	}
}

type Line = domain.CartLine

type Summary struct {
	Items    int             `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}
