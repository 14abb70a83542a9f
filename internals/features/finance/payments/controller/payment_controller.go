package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "dojoku_backend/internals/features/finance/payments/dto"
	service "dojoku_backend/internals/features/finance/payments/service"
	txModel "dojoku_backend/internals/features/finance/transactions/model"
	helper "dojoku_backend/internals/helpers"
)

type PaymentController struct {
	DB       *gorm.DB
	Payments *service.PaymentService
	validate *validator.Validate
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{
		DB:       db,
		Payments: service.NewPaymentService(db),
		validate: validator.New(),
	}
}

/* =========================================================
   POST /bills/:id/pay-cash
   The collector defaults to the logged-in staff user.
========================================================= */

func (h *PaymentController) PayBillCash(c *fiber.Ctx) error {
	billID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid bill id")
	}

	var req dto.PayCashRequest
	_ = c.BodyParser(&req) // empty body means "collector = me"

	collector := req.CollectorUserID
	if collector == nil {
		if uid, err := helper.GetUserUUID(c); err == nil {
			collector = &uid
		}
	}

	bill, err := h.Payments.PayBill(c.UserContext(), billID, txModel.PaymentFormCash, collector)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "bill paid", bill)
}

/* =========================================================
   POST /registrations/:id/confirm-manual
========================================================= */

func (h *PaymentController) ConfirmRegistrationManual(c *fiber.Ctx) error {
	regID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid registration id")
	}

	var req dto.ConfirmManualRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	collector := req.CollectorUserID
	if collector == nil && req.Method == txModel.PaymentFormCash {
		if uid, err := helper.GetUserUUID(c); err == nil {
			collector = &uid
		}
	}

	reg, err := h.Payments.PayRegistration(c.UserContext(), regID, req.Method, collector)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "registration paid", reg)
}

/* =========================================================
   POST /registrations/:id/cancel
========================================================= */

func (h *PaymentController) CancelRegistration(c *fiber.Ctx) error {
	regID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid registration id")
	}

	reg, err := h.Payments.CancelRegistration(c.UserContext(), regID)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "registration cancelled", reg)
}
