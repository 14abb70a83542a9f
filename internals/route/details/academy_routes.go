package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventController "dojoku_backend/internals/features/academy/events/controller"
	enrollController "dojoku_backend/internals/features/academy/students/controller"
	userController "dojoku_backend/internals/features/academy/users/controller"
	authmw "dojoku_backend/internals/middlewares/auth"
)

// AcademyRoutes mounts the enrollment and event registration surface.
func AcademyRoutes(api fiber.Router, db *gorm.DB) {
	uc := userController.NewStaffController(db)
	ec := enrollController.NewEnrollmentController(db)
	rc := eventController.NewRegistrationController(db)

	staff := api.Group("", authmw.StaffOnly())
	staff.Get("/staff", uc.ListStaff)
	staff.Post("/enrollments", ec.Create)
	staff.Post("/enrollments/:id/deactivate", ec.Deactivate)

	// Students may register themselves; staff may register anyone.
	api.Post("/events/:id/register", rc.Register)
}
