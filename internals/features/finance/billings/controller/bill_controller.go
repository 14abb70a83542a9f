package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	model "dojoku_backend/internals/features/finance/billings/model"
	service "dojoku_backend/internals/features/finance/billings/service"
	helper "dojoku_backend/internals/helpers"
)

type BillController struct {
	DB        *gorm.DB
	Generator *service.BillGeneratorService
}

func NewBillController(db *gorm.DB) *BillController {
	return &BillController{
		DB:        db,
		Generator: service.NewBillGeneratorService(db),
	}
}

/* =========================================================
   GET /bills
   Filters: status, student_id, month+year (due date).
========================================================= */

func (h *BillController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 200)

	q := h.DB.WithContext(c.UserContext()).Model(&model.MonthlyBillModel{}).
		Preload("Student").
		Preload("Plan")

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("monthly_bill_status = ?", status)
	}
	if sid := strings.TrimSpace(c.Query("student_id")); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "invalid student_id")
		}
		q = q.Where("monthly_bill_student_id = ?", id)
	}
	month := c.QueryInt("month")
	year := c.QueryInt("year")
	if month >= 1 && month <= 12 && year > 0 {
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		q = q.Where("monthly_bill_due_date >= ? AND monthly_bill_due_date < ?",
			start, start.AddDate(0, 1, 0))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JSONError(c, err)
	}

	var rows []model.MonthlyBillModel
	if err := q.
		Order("monthly_bill_due_date DESC").
		Offset(paging.Offset).
		Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JSONError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "ok",
		"data":       rows,
		"pagination": helper.BuildPagination(total, paging, len(rows)),
	})
}

/* =========================================================
   POST /bills/generate
   Body {month, year} is optional; default is next month.
========================================================= */

func (h *BillController) Generate(c *fiber.Ctx) error {
	var req struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	}
	_ = c.BodyParser(&req)

	if req.Month == 0 || req.Year == 0 {
		req.Month, req.Year = service.NextTarget(time.Now())
	}

	res, err := h.Generator.GenerateForMonth(c.UserContext(), req.Month, req.Year)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "generation complete", res)
}
