package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dojoku_backend/internals/constants"
	model "dojoku_backend/internals/features/academy/users/model"
	helper "dojoku_backend/internals/helpers"
)

type StaffController struct {
	DB *gorm.DB
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db}
}

// ListStaff returns the users eligible as collectors/beneficiaries.
// GET /staff
func (h *StaffController) ListStaff(c *fiber.Ctx) error {
	var rows []model.UserModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("user_role IN ? AND user_is_active = ?", constants.StaffRoles, true).
		Order("user_full_name ASC").
		Find(&rows).Error; err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "ok", rows)
}
