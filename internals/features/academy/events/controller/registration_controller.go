package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	service "dojoku_backend/internals/features/academy/events/service"
	studentModel "dojoku_backend/internals/features/academy/students/model"
	helper "dojoku_backend/internals/helpers"
)

type RegistrationController struct {
	DB            *gorm.DB
	Registrations *service.RegistrationService
}

func NewRegistrationController(db *gorm.DB) *RegistrationController {
	return &RegistrationController{
		DB:            db,
		Registrations: service.NewRegistrationService(db),
	}
}

// POST /events/:id/register
// Staff may pass an explicit student_id; a student-portal caller is
// resolved from their own token.
func (h *RegistrationController) Register(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var req struct {
		StudentID *uuid.UUID `json:"student_id"`
	}
	_ = c.BodyParser(&req)

	studentID := uuid.Nil
	if req.StudentID != nil {
		studentID = *req.StudentID
	} else {
		uid, err := helper.GetUserUUID(c)
		if err != nil {
			return err
		}
		var student studentModel.StudentModel
		if err := h.DB.WithContext(c.UserContext()).
			Take(&student, "student_user_id = ?", uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JSONError(c, helper.ErrNotFound)
			}
			return helper.JSONError(c, err)
		}
		studentID = student.StudentID
	}

	reg, err := h.Registrations.Register(c.UserContext(), eventID, studentID)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "registration created", reg)
}
