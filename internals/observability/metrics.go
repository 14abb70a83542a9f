package observability

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PaymentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dojoku_payments_processed_total",
		Help: "Payments applied by the payment processor.",
	}, []string{"kind"})

	BillsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dojoku_bills_generated_total",
		Help: "Monthly bills created by the generator.",
	})

	GatewayEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dojoku_gateway_events_total",
		Help: "Webhook deliveries by processing outcome.",
	}, []string{"status"})
)

// MetricsHandler exposes the prometheus registry on a fiber route.
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
