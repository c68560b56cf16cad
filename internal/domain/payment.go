package domain

import "github.com/shopspring/decimal"

// PaymentResult is returned by the payment service after processing an order.
type PaymentResult struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type PaymentStatus struct {
	OrderID int64            `json:"orderId"`
	Status  string           `json:"status"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
}
