// Package metrics holds the Prometheus collectors of the storefront.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Calls to remote services by service and HTTP status code.",
	}, []string{"service", "code"})

	GatewayAuthExpired = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "gateway",
		Name:      "auth_expired_total",
		Help:      "Responses that invalidated the session token.",
	}, []string{"service"})

	CheckoutOrders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "orders_total",
		Help:      "Order placement attempts by result.",
	}, []string{"result"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
