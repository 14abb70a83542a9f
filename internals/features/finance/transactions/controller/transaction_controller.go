package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "dojoku_backend/internals/features/finance/transactions/dto"
	model "dojoku_backend/internals/features/finance/transactions/model"
	service "dojoku_backend/internals/features/finance/transactions/service"
	helper "dojoku_backend/internals/helpers"
)

type TransactionController struct {
	DB       *gorm.DB
	Ledger   *service.LedgerService
	Payouts  *service.PayoutService
	Buckets  *service.CashBucketService
	validate *validator.Validate
}

func NewTransactionController(db *gorm.DB) *TransactionController {
	return &TransactionController{
		DB:       db,
		Ledger:   service.NewLedgerService(db),
		Payouts:  service.NewPayoutService(db),
		Buckets:  service.NewCashBucketService(db),
		validate: validator.New(),
	}
}

/* =========================================================
   POST /transactions
   An expense with cash_offset_cents > 0 is a payout with
   offset and goes through the serialized payout path.
========================================================= */

func (h *TransactionController) Create(c *fiber.Ctx) error {
	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.Kind == string(model.TransactionKindExpense) && req.CashOffsetCents > 0 {
		if req.BeneficiaryUserID == nil {
			return helper.JSONError(c, helper.NewValidation("cash offset requires a beneficiary user"))
		}
		recordedBy := req.ResponsibleUserID
		if recordedBy == nil {
			if uid, err := helper.GetUserUUID(c); err == nil {
				recordedBy = &uid
			}
		}
		out, err := h.Payouts.RecordPayout(c.UserContext(), service.PayoutInput{
			BeneficiaryUserID: *req.BeneficiaryUserID,
			Category:          req.Category,
			AmountCents:       req.AmountCents,
			CashOffsetCents:   req.CashOffsetCents,
			Description:       req.Description,
			PaymentForm:       req.PaymentForm,
			RecordedBy:        recordedBy,
		})
		if err != nil {
			return helper.JSONError(c, err)
		}
		return helper.SuccessWithCode(c, fiber.StatusCreated, "payout recorded", out)
	}

	m := req.ToModel()
	if err := h.Ledger.Create(c.UserContext(), m); err != nil {
		return helper.JSONError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "transaction created", m)
}

/* =========================================================
   GET /transactions
   Filters: kind, category, search, from, to, skip, limit.
========================================================= */

func (h *TransactionController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 200)

	f := service.TransactionFilter{
		Kind:     strings.TrimSpace(c.Query("kind")),
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
		Offset:   paging.Offset,
		Limit:    paging.Limit,
	}
	const dFmt = "2006-01-02"
	if fs := strings.TrimSpace(c.Query("from")); fs != "" {
		if t, err := time.Parse(dFmt, fs); err == nil {
			f.From = &t
		}
	}
	if ts := strings.TrimSpace(c.Query("to")); ts != "" {
		if t, err := time.Parse(dFmt, ts); err == nil {
			f.To = &t
		}
	}

	rows, total, err := h.Ledger.List(c.UserContext(), f)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "ok",
		"data":       rows,
		"pagination": helper.BuildPagination(total, paging, len(rows)),
	})
}

func (h *TransactionController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid transaction id")
	}
	row, err := h.Ledger.Get(c.UserContext(), id)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "ok", row)
}

func (h *TransactionController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid transaction id")
	}
	var req dto.UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := h.Ledger.Update(c.UserContext(), id, func(m *model.FinancialTransactionModel) error {
		req.Apply(m)
		return nil
	})
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "transaction updated", row)
}

func (h *TransactionController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid transaction id")
	}
	if err := h.Ledger.Delete(c.UserContext(), id); err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "transaction deleted", nil)
}
