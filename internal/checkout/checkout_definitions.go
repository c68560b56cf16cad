package checkout

import (
	"context"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

type OrderAPI interface {
	CreateOrder(ctx context.Context, customer string) (*domain.Order, error)
	AddItem(ctx context.Context, orderID, productID int64, quantity int) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
}

type PaymentAPI interface {
	ProcessPayment(ctx context.Context, orderID int64) (*domain.PaymentResult, error)
	PaymentStatus(ctx context.Context, orderID int64) (*domain.PaymentStatus, error)
}

// Service turns a session's cart into a remote order. It is cheap to build
// and is normally created per request around the session's gateway clients.
type Service struct {
	orders   OrderAPI
	payments PaymentAPI
}

func NewService(orders OrderAPI, payments PaymentAPI) *Service {
	return &Service{
		orders:   orders,
		payments: payments,
	}
}

// OrderDetails is an order with its payment status, when known.
type OrderDetails struct {
	Order   *domain.Order         `json:"order"`
	Payment *domain.PaymentStatus `json:"payment,omitempty"`
}
