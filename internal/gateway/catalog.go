package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

const ServiceCatalog = "catalog"

type CatalogClient struct {
	client *Client
}

func NewCatalogClient(baseURL string, tokens TokenProvider, opts ...Option) *CatalogClient {
	return &CatalogClient{client: New(ServiceCatalog, baseURL, tokens, opts...)}
}

// GET /catalog/items
func (c *CatalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.client.do(ctx, http.MethodGet, "/catalog/items", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GET /catalog/items/{id}
func (c *CatalogClient) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.client.do(ctx, http.MethodGet, productPath(id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// POST /catalog/items
func (c *CatalogClient) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.client.do(ctx, http.MethodPost, "/catalog/items", nil, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// PUT /catalog/items/{id}
func (c *CatalogClient) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.client.do(ctx, http.MethodPut, productPath(id), nil, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DELETE /catalog/items/{id}
func (c *CatalogClient) DeleteProduct(ctx context.Context, id int64) error {
	return c.client.do(ctx, http.MethodDelete, productPath(id), nil, nil, nil)
}

func productPath(id int64) string {
	return fmt.Sprintf("/catalog/items/%d", id)
}
