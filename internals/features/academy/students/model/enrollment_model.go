package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ==============================================
   MODEL: enrollments
   Invariant: at most one active enrollment per
   student (partial unique index, see databases).
============================================== */

type EnrollmentModel struct {
	EnrollmentID uuid.UUID `gorm:"column:enrollment_id;type:uuid;primaryKey" json:"enrollment_id"`

	EnrollmentStudentID uuid.UUID `gorm:"column:enrollment_student_id;type:uuid;not null;index" json:"enrollment_student_id"`
	EnrollmentPlanID    uuid.UUID `gorm:"column:enrollment_plan_id;type:uuid;not null;index" json:"enrollment_plan_id"`

	// Class CRUD lives outside this core; keep the reference plus a label snapshot.
	EnrollmentClassID           *uuid.UUID `gorm:"column:enrollment_class_id;type:uuid;index" json:"enrollment_class_id,omitempty"`
	EnrollmentClassNameSnapshot *string    `gorm:"column:enrollment_class_name_snapshot;type:varchar(80)" json:"enrollment_class_name_snapshot,omitempty"`

	EnrollmentIsActive bool `gorm:"column:enrollment_is_active;not null;default:true;index" json:"enrollment_is_active"`

	EnrollmentCreatedAt time.Time      `gorm:"column:enrollment_created_at;not null" json:"enrollment_created_at"`
	EnrollmentUpdatedAt time.Time      `gorm:"column:enrollment_updated_at;not null" json:"enrollment_updated_at"`
	EnrollmentDeletedAt gorm.DeletedAt `gorm:"column:enrollment_deleted_at;index" json:"-"`

	Student StudentModel `gorm:"foreignKey:EnrollmentStudentID;references:StudentID" json:"student,omitempty"`
	Plan    PlanModel    `gorm:"foreignKey:EnrollmentPlanID;references:PlanID" json:"plan,omitempty"`
}

func (EnrollmentModel) TableName() string { return "enrollments" }

func (m *EnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.EnrollmentID == uuid.Nil {
		m.EnrollmentID = uuid.New()
	}
	now := time.Now()
	if m.EnrollmentCreatedAt.IsZero() {
		m.EnrollmentCreatedAt = now
	}
	m.EnrollmentUpdatedAt = now
	return nil
}

func (m *EnrollmentModel) BeforeUpdate(tx *gorm.DB) error {
	m.EnrollmentUpdatedAt = time.Now()
	return nil
}
