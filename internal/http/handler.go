package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/checkout"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/gateway"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/identity"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/metrics"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/session"
)

// Authenticator is the identity provider as seen by the auth handlers.
type Authenticator interface {
	LoginURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error)
	LogoutURL(idTokenHint, redirect string) string
	IsAdmin(s *identity.Session) bool
}

type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type Orders interface {
	checkout.OrderAPI
	MyOrders(ctx context.Context) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	CancelOrder(ctx context.Context, id int64) (*domain.Order, error)
}

// Backends are the remote services acting on behalf of one session.
type Backends struct {
	Catalog  Catalog
	Orders   Orders
	Payments checkout.PaymentAPI
}

type BackendFactory func(s *session.Session) Backends

// GatewayBackends builds gateway clients that authenticate with the
// session's token and expire the session on a remote 401.
func GatewayBackends(ep gateway.Endpoints, opts ...gateway.Option) BackendFactory {
	return func(s *session.Session) Backends {
		sessOpts := append(opts[:len(opts):len(opts)], gateway.WithAuthExpired(s.ExpireAuth))
		set := gateway.NewSet(ep, s.Identity, sessOpts...)
		return Backends{
			Catalog:  set.Catalog,
			Orders:   set.Orders,
			Payments: set.Payments,
		}
	}
}

type Options struct {
	AppURL         string // front-end origin, target of post-login and post-logout redirects
	AllowedOrigins []string
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	CookieSecure   bool
	TaxRate        decimal.Decimal
}

type Handler struct {
	sessions *session.Manager
	backends BackendFactory
	auth     Authenticator
	opts     Options
}

func NewHandler(sessions *session.Manager, backends BackendFactory, auth Authenticator, opts Options) *Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Handler{
		sessions: sessions,
		backends: backends,
		auth:     auth,
		opts:     opts,
	}
}

func (h *Handler) backendsFor(r *http.Request) Backends {
	return h.backends(sessionFrom(r))
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   h.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{ReloadHeader, "X-Request-ID"},
		AllowCredentials: true,
	}).Handler)
	r.Use(middleware.Timeout(h.opts.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(h.withSession)

		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", h.Login)
			r.Get("/callback", h.Callback)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/catalog", h.ListProducts)
			r.Get("/catalog/{id}", h.GetProduct)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Post("/items", h.AddItem)
				r.Put("/items/{productId}", h.UpdateQuantity)
				r.Delete("/items/{productId}", h.RemoveItem)
			})

			r.Post("/checkout", h.PlaceOrder)

			r.Route("/orders", func(r chi.Router) {
				r.Use(h.requireAuth)
				r.Get("/", h.MyOrders)
				r.Get("/{id}", h.GetOrder)
				r.Post("/{id}/pay", h.PayOrder)
				r.Post("/{id}/cancel", h.CancelOrder)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(h.requireAuth, h.requireAdmin)
				r.Get("/dashboard", h.Dashboard)
				r.Post("/products", h.CreateProduct)
				r.Put("/products/{id}", h.UpdateProduct)
				r.Delete("/products/{id}", h.DeleteProduct)
				r.Get("/orders", h.AllOrders)
				r.Put("/orders/{id}/status", h.UpdateOrderStatus)
				r.Delete("/orders/{id}", h.DeleteOrder)
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
