package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

const ServiceOrders = "orders"

type OrderClient struct {
	client *Client
}

func NewOrderClient(baseURL string, tokens TokenProvider, opts ...Option) *OrderClient {
	return &OrderClient{client: New(ServiceOrders, baseURL, tokens, opts...)}
}

// POST /orders?customer={username}
func (c *OrderClient) CreateOrder(ctx context.Context, customer string) (*domain.Order, error) {
	var order domain.Order
	query := url.Values{"customer": []string{customer}}
	if err := c.client.do(ctx, http.MethodPost, "/orders", query, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GET /orders/{id}
func (c *OrderClient) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := c.client.do(ctx, http.MethodGet, orderPath(id), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GET /orders/me
func (c *OrderClient) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.client.do(ctx, http.MethodGet, "/orders/me", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// POST /orders/{id}/items
func (c *OrderClient) AddItem(ctx context.Context, orderID, productID int64, quantity int) (*domain.Order, error) {
	var order domain.Order
	body := domain.AddItemRequest{ProductID: productID, Quantity: quantity}
	if err := c.client.do(ctx, http.MethodPost, orderPath(orderID)+"/items", nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GET /orders
func (c *OrderClient) AllOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.client.do(ctx, http.MethodGet, "/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PUT /orders/{id}/status
//
// The status travels in the body and, for services that bind it from the
// query string, as ?status= as well.
func (c *OrderClient) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	var order domain.Order
	query := url.Values{"status": []string{status.String()}}
	body := domain.UpdateStatusRequest{Status: status}
	if err := c.client.do(ctx, http.MethodPut, orderPath(id)+"/status", query, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DELETE /orders/{id}
func (c *OrderClient) DeleteOrder(ctx context.Context, id int64) error {
	return c.client.do(ctx, http.MethodDelete, orderPath(id), nil, nil, nil)
}

// PUT /orders/{id}/cancel
func (c *OrderClient) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := c.client.do(ctx, http.MethodPut, orderPath(id)+"/cancel", nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func orderPath(id int64) string {
	return fmt.Sprintf("/orders/%d", id)
}
