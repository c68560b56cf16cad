package gateway

// Endpoints are the base URLs of the three remote services.
type Endpoints struct {
	Catalog  string
	Orders   string
	Payments string
}

// Set bundles the three service clients built over one token provider.
type Set struct {
	Catalog  *CatalogClient
	Orders   *OrderClient
	Payments *PaymentClient
}

func NewSet(ep Endpoints, tokens TokenProvider, opts ...Option) *Set {
	return &Set{
		Catalog:  NewCatalogClient(ep.Catalog, tokens, opts...),
		Orders:   NewOrderClient(ep.Orders, tokens, opts...),
		Payments: NewPaymentClient(ep.Payments, tokens, opts...),
	}
}
