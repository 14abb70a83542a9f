package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	billController "dojoku_backend/internals/features/finance/billings/controller"
	paymentController "dojoku_backend/internals/features/finance/payments/controller"
	txController "dojoku_backend/internals/features/finance/transactions/controller"
	authmw "dojoku_backend/internals/middlewares/auth"
)

// FinanceRoutes mounts the financial core. Staff only.
func FinanceRoutes(api fiber.Router, db *gorm.DB) {
	staff := api.Group("", authmw.StaffOnly())

	tc := txController.NewTransactionController(db)
	staff.Post("/transactions", tc.Create)
	staff.Get("/transactions", tc.List)
	staff.Get("/transactions/:id", tc.GetByID)
	staff.Put("/transactions/:id", tc.Update)
	staff.Delete("/transactions/:id", tc.Delete)
	staff.Get("/balance", tc.GetBalance)

	bc := billController.NewBillController(db)
	staff.Get("/bills", bc.List)
	staff.Post("/bills/generate", bc.Generate)

	pc := paymentController.NewPaymentController(db)
	staff.Post("/bills/:id/pay-cash", pc.PayBillCash)
	staff.Post("/registrations/:id/confirm-manual", pc.ConfirmRegistrationManual)
	staff.Post("/registrations/:id/cancel", pc.CancelRegistration)
}
