package checkout

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/metrics"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/session"
)

// PlaceOrder creates an order for the signed-in customer and adds every cart
// line to it, one call at a time in cart order. The cart is cleared only once
// every line was accepted; on any failure it is left as it was.
func (s *Service) PlaceOrder(ctx context.Context, sess *session.Session) (int64, error) {
	if !sess.Identity.IsAuthenticated() {
		metrics.CheckoutOrders.WithLabelValues("unauthenticated").Inc()
		return 0, ErrNotAuthenticated
	}
	lines := sess.Cart.Lines()
	if len(lines) == 0 {
		metrics.CheckoutOrders.WithLabelValues("empty_cart").Inc()
		return 0, ErrEmptyCart
	}

	total := sess.Cart.Total()

	order, err := s.orders.CreateOrder(ctx, sess.Identity.CurrentUsername())
	if err != nil {
		metrics.CheckoutOrders.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	for _, line := range lines {
		if _, err := s.orders.AddItem(ctx, order.ID, line.ProductID, line.Quantity); err != nil {
			metrics.CheckoutOrders.WithLabelValues("failed").Inc()
			log.Warn().Err(err).
				Int64("order_id", order.ID).
				Int64("product_id", line.ProductID).
				Msg("order left incomplete")
			return 0, fmt.Errorf("failed to add product %d to order %d: %w", line.ProductID, order.ID, err)
		}
	}

	sess.Cart.ClearCart()
	metrics.CheckoutOrders.WithLabelValues("placed").Inc()
	log.Info().
		Int64("order_id", order.ID).
		Int("lines", len(lines)).
		Str("total", total.String()).
		Msg("order placed")
	return order.ID, nil
}
