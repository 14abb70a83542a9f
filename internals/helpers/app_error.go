package helper

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/* =========================================================
   AppError: stable, machine-readable error kinds

   Services return these sentinels (optionally wrapped);
   controllers hand anything they get to JSONError, which
   owns the kind→HTTP mapping. DB integrity errors are
   re-classified here, never surfaced raw.
========================================================= */

type AppError struct {
	HTTPCode int    `json:"-"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrNotFound            = &AppError{fiber.StatusNotFound, "NotFound", "resource not found"}
	ErrAlreadyPaid         = &AppError{fiber.StatusBadRequest, "AlreadyPaid", "already paid or not payable"}
	ErrAlreadyCancelled    = &AppError{fiber.StatusBadRequest, "AlreadyCancelled", "already cancelled"}
	ErrCapacityExceeded    = &AppError{fiber.StatusBadRequest, "CapacityExceeded", "event capacity exceeded"}
	ErrDuplicateEnrollment = &AppError{fiber.StatusBadRequest, "DuplicateEnrollment", "student already has an active enrollment"}
	ErrMissingCollector    = &AppError{fiber.StatusBadRequest, "MissingCollector", "cash payments require a collector user"}
	ErrInsufficientBucket  = &AppError{fiber.StatusBadRequest, "InsufficientBucket", "cash offset exceeds the beneficiary's cash bucket"}
	ErrConflict            = &AppError{fiber.StatusConflict, "Conflict", "conflicting concurrent change"}
)

// NewValidation builds a field-level ValidationError kind.
func NewValidation(message string) *AppError {
	return &AppError{fiber.StatusBadRequest, "ValidationError", message}
}

// JSONError renders any error through the standard envelope.
func JSONError(c *fiber.Ctx, err error) error {
	var ae *AppError
	if errors.As(err, &ae) {
		return c.Status(ae.HTTPCode).JSON(fiber.Map{
			"code":    ae.HTTPCode,
			"status":  "error",
			"error":   ae.Kind,
			"message": ae.Message,
		})
	}

	if ve, ok := err.(validator.ValidationErrors); ok {
		return ValidationError(c, ve)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Error(c, fe.Code, fe.Message)
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return JSONError(c, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return JSONError(c, ErrConflict)
	}

	slog.Error("internal error", "path", c.Path(), "err", err)
	return Error(c, fiber.StatusInternalServerError, "internal server error")
}
