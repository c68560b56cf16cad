package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

// MockOrders records every call made by the checkout service, in order, as
// "create(customer)" and "add(order,product,quantity)".
type MockOrders struct {
	mu        sync.Mutex
	Calls     []string
	adds      int
	CreateErr error
	AddErrAt  int // 1-based add call that fails; 0 never fails
	AddErr    error
	Order     *domain.Order
	GetErr    error
}

func (m *MockOrders) CreateOrder(_ context.Context, customer string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf("create(%s)", customer))
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return &domain.Order{ID: 42, CustomerUsername: customer, Status: domain.OrderStatusCreated}, nil
}

func (m *MockOrders) AddItem(_ context.Context, orderID, productID int64, quantity int) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf("add(%d,%d,%d)", orderID, productID, quantity))
	m.adds++
	if m.AddErrAt == m.adds {
		return nil, m.AddErr
	}
	return &domain.Order{ID: orderID}, nil
}

func (m *MockOrders) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Order != nil {
		return m.Order, nil
	}
	return &domain.Order{ID: id}, nil
}

type MockPayments struct {
	Processed []int64
	Result    *domain.PaymentResult
	Err       error
	Status    *domain.PaymentStatus
	StatusErr error
}

func (m *MockPayments) ProcessPayment(_ context.Context, orderID int64) (*domain.PaymentResult, error) {
	m.Processed = append(m.Processed, orderID)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *MockPayments) PaymentStatus(_ context.Context, _ int64) (*domain.PaymentStatus, error) {
	return m.Status, m.StatusErr
}
