package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentController "dojoku_backend/internals/features/finance/payments/controller"
	"dojoku_backend/internals/middlewares"
	authmw "dojoku_backend/internals/middlewares/auth"
	"dojoku_backend/internals/route/details"
)

// SetupRoutes mounts the whole API surface.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	// Public webhook sink: gateways do not carry our JWTs.
	webhooks := api.Group("/webhooks", middlewares.WebhookRateLimiter())
	wc := paymentController.NewWebhookController(db)
	webhooks.Post("/payments", wc.HandlePaymentWebhook)
	webhooks.Post("/midtrans", wc.HandleMidtransWebhook)

	authed := api.Group("", authmw.AuthMiddleware())
	details.AcademyRoutes(authed, db)
	details.FinanceRoutes(authed, db)
}
