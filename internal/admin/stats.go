// Package admin computes the back-office dashboard figures.
package admin

import (
	"github.com/shopspring/decimal"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

type Stats struct {
	Products  int             `json:"products"`
	Orders    int             `json:"orders"`
	Pending   int             `json:"pending"`
	Completed int             `json:"completed"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ComputeStats counts open orders as pending and settled orders as completed.
// Revenue is the sum of settled order totals.
func ComputeStats(products []domain.Product, orders []domain.Order) Stats {
	st := Stats{
		Products: len(products),
		Orders:   len(orders),
		Revenue:  decimal.Zero,
	}
	for _, o := range orders {
		switch {
		case o.Status.IsOpen():
			st.Pending++
		case o.Status.IsSettled():
			st.Completed++
			st.Revenue = st.Revenue.Add(o.Total)
		}
	}
	return st
}
