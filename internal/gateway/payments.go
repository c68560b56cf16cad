package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

const ServicePayments = "payments"

type PaymentClient struct {
	client *Client
}

func NewPaymentClient(baseURL string, tokens TokenProvider, opts ...Option) *PaymentClient {
	return &PaymentClient{client: New(ServicePayments, baseURL, tokens, opts...)}
}

// POST /payments/process/{orderId}
func (c *PaymentClient) ProcessPayment(ctx context.Context, orderID int64) (*domain.PaymentResult, error) {
	var result domain.PaymentResult
	path := fmt.Sprintf("/payments/process/%d", orderID)
	if err := c.client.do(ctx, http.MethodPost, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GET /payments/status/{orderId}
func (c *PaymentClient) PaymentStatus(ctx context.Context, orderID int64) (*domain.PaymentStatus, error) {
	var status domain.PaymentStatus
	path := fmt.Sprintf("/payments/status/%d", orderID)
	if err := c.client.do(ctx, http.MethodGet, path, nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
