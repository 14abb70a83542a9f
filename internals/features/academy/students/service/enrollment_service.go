package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	studentModel "dojoku_backend/internals/features/academy/students/model"
	helper "dojoku_backend/internals/helpers"
)

type EnrollmentService struct {
	DB *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{DB: db}
}

type EnrollmentInput struct {
	StudentID uuid.UUID
	PlanID    uuid.UUID
	ClassID   *uuid.UUID
	ClassName *string
}

// CreateEnrollment enforces at most one active enrollment per student.
// The partial unique index backs the same rule on Postgres; duplicate-key
// races surface as Conflict at the boundary.
func (s *EnrollmentService) CreateEnrollment(ctx context.Context, in EnrollmentInput) (*studentModel.EnrollmentModel, error) {
	var enrollment studentModel.EnrollmentModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student studentModel.StudentModel
		if err := tx.Take(&student, "student_id = ?", in.StudentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.ErrNotFound
			}
			return err
		}
		var plan studentModel.PlanModel
		if err := tx.Take(&plan, "plan_id = ?", in.PlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.ErrNotFound
			}
			return err
		}

		var active int64
		if err := tx.Model(&studentModel.EnrollmentModel{}).
			Where("enrollment_student_id = ? AND enrollment_is_active = ?", in.StudentID, true).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return helper.ErrDuplicateEnrollment
		}

		enrollment = studentModel.EnrollmentModel{
			EnrollmentStudentID:         in.StudentID,
			EnrollmentPlanID:            in.PlanID,
			EnrollmentClassID:           in.ClassID,
			EnrollmentClassNameSnapshot: in.ClassName,
			EnrollmentIsActive:          true,
		}
		return tx.Create(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// DeactivateEnrollment ends an active enrollment (billing stops with it).
func (s *EnrollmentService) DeactivateEnrollment(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&studentModel.EnrollmentModel{}).
		Where("enrollment_id = ? AND enrollment_is_active = ?", id, true).
		Update("enrollment_is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound
	}
	return nil
}
