package http

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/identity"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/session"
)

type CatalogMock struct {
	products []domain.Product
	delay    time.Duration
	err      error
	created  []domain.ProductInput
	deleted  []int64
}

func (m *CatalogMock) ListProducts(context.Context) ([]domain.Product, error) {
	time.Sleep(m.delay)
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *CatalogMock) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	time.Sleep(m.delay)
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, notFound("catalog")
}

func (m *CatalogMock) CreateProduct(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, in)
	return &domain.Product{ID: 99, Name: in.Name, Price: in.Price, Stock: in.Stock}, nil
}

func (m *CatalogMock) UpdateProduct(_ context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Product{ID: id, Name: in.Name, Price: in.Price, Stock: in.Stock}, nil
}

func (m *CatalogMock) DeleteProduct(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

type addedItem struct {
	orderID, productID int64
	quantity           int
}

type OrdersMock struct {
	mu       sync.Mutex
	orders   []domain.Order
	err      error
	created  []string
	added    []addedItem
	statuses map[int64]domain.OrderStatus
	deleted  []int64
}

func (m *OrdersMock) CreateOrder(_ context.Context, customer string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, customer)
	return &domain.Order{ID: 500, CustomerUsername: customer, Status: domain.OrderStatusCreated}, nil
}

func (m *OrdersMock) AddItem(_ context.Context, orderID, productID int64, quantity int) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.added = append(m.added, addedItem{orderID, productID, quantity})
	return &domain.Order{ID: orderID}, nil
}

func (m *OrdersMock) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, notFound("orders")
}

func (m *OrdersMock) MyOrders(context.Context) ([]domain.Order, error) {
	return m.orders, m.err
}

func (m *OrdersMock) AllOrders(context.Context) ([]domain.Order, error) {
	return m.orders, m.err
}

func (m *OrdersMock) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.statuses == nil {
		m.statuses = map[int64]domain.OrderStatus{}
	}
	m.statuses[id] = status
	return &domain.Order{ID: id, Status: status}, nil
}

func (m *OrdersMock) DeleteOrder(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *OrdersMock) CancelOrder(_ context.Context, id int64) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Order{ID: id, Status: domain.OrderStatusCancelled}, nil
}

type PaymentsMock struct {
	processed []int64
	err       error
}

func (m *PaymentsMock) ProcessPayment(_ context.Context, orderID int64) (*domain.PaymentResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.processed = append(m.processed, orderID)
	return &domain.PaymentResult{OrderID: orderID, Status: "PAID"}, nil
}

func (m *PaymentsMock) PaymentStatus(_ context.Context, orderID int64) (*domain.PaymentStatus, error) {
	return &domain.PaymentStatus{OrderID: orderID, Status: "PAID"}, nil
}

// AuthMock is a real provider whose code exchange never leaves the process.
type AuthMock struct {
	*identity.Provider
	token *oauth2.Token
	err   error
	codes []string
}

func (m *AuthMock) Exchange(_ context.Context, code, _ string) (*oauth2.Token, error) {
	m.codes = append(m.codes, code)
	if m.err != nil {
		return nil, m.err
	}
	return m.token, nil
}

func mockBackends(c *CatalogMock, o *OrdersMock, p *PaymentsMock) BackendFactory {
	return func(*session.Session) Backends {
		return Backends{Catalog: c, Orders: o, Payments: p}
	}
}
