package checkout

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

func (s *Service) Pay(ctx context.Context, orderID int64) (*domain.PaymentResult, error) {
	res, err := s.payments.ProcessPayment(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to process payment for order %d: %w", orderID, err)
	}
	return res, nil
}

// OrderDetails loads an order and its payment status. A failed status lookup
// is not fatal; the order is returned without it.
func (s *Service) OrderDetails(ctx context.Context, orderID int64) (*OrderDetails, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}

	details := &OrderDetails{Order: order}
	status, err := s.payments.PaymentStatus(ctx, orderID)
	if err != nil {
		log.Debug().Err(err).Int64("order_id", orderID).Msg("payment status unavailable")
		return details, nil
	}
	details.Payment = status
	return details, nil
}
