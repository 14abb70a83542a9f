package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	service "dojoku_backend/internals/features/academy/students/service"
	helper "dojoku_backend/internals/helpers"
)

type EnrollmentController struct {
	DB          *gorm.DB
	Enrollments *service.EnrollmentService
	validate    *validator.Validate
}

func NewEnrollmentController(db *gorm.DB) *EnrollmentController {
	return &EnrollmentController{
		DB:          db,
		Enrollments: service.NewEnrollmentService(db),
		validate:    validator.New(),
	}
}

type createEnrollmentRequest struct {
	StudentID uuid.UUID  `json:"student_id" validate:"required"`
	PlanID    uuid.UUID  `json:"plan_id" validate:"required"`
	ClassID   *uuid.UUID `json:"class_id"`
	ClassName *string    `json:"class_name"`
}

// POST /enrollments
func (h *EnrollmentController) Create(c *fiber.Ctx) error {
	var req createEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	enrollment, err := h.Enrollments.CreateEnrollment(c.UserContext(), service.EnrollmentInput{
		StudentID: req.StudentID,
		PlanID:    req.PlanID,
		ClassID:   req.ClassID,
		ClassName: req.ClassName,
	})
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "enrollment created", enrollment)
}

// POST /enrollments/:id/deactivate
func (h *EnrollmentController) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid enrollment id")
	}
	if err := h.Enrollments.DeactivateEnrollment(c.UserContext(), id); err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "enrollment deactivated", nil)
}
