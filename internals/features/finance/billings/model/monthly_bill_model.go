package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	studentModel "dojoku_backend/internals/features/academy/students/model"
)

/* ==============================
   ENUM: status monthly bill
============================== */

type MonthlyBillStatus string

const (
	MonthlyBillStatusPending   MonthlyBillStatus = "pending"
	MonthlyBillStatusPaid      MonthlyBillStatus = "paid"
	MonthlyBillStatusCancelled MonthlyBillStatus = "cancelled"
)

/* ==============================================
   MODEL: monthly_bills
   Invariant: (enrollment_id, due_date) unique
   among non-cancelled rows (partial index,
   see databases.EnsureIndexes).
============================================== */

type MonthlyBillModel struct {
	MonthlyBillID uuid.UUID `gorm:"column:monthly_bill_id;type:uuid;primaryKey" json:"monthly_bill_id"`

	MonthlyBillStudentID uuid.UUID `gorm:"column:monthly_bill_student_id;type:uuid;not null;index" json:"monthly_bill_student_id"`
	MonthlyBillPlanID    uuid.UUID `gorm:"column:monthly_bill_plan_id;type:uuid;not null;index" json:"monthly_bill_plan_id"`

	// Nullable for legacy rows imported before enrollments existed.
	MonthlyBillEnrollmentID *uuid.UUID `gorm:"column:monthly_bill_enrollment_id;type:uuid;index:idx_bill_enrollment_due,priority:1" json:"monthly_bill_enrollment_id,omitempty"`

	// Amount captured from the plan at generation time, in cents.
	MonthlyBillAmountCents int64 `gorm:"column:monthly_bill_amount_cents;not null;check:monthly_bill_amount_cents >= 0" json:"monthly_bill_amount_cents"`

	MonthlyBillDueDate time.Time  `gorm:"column:monthly_bill_due_date;type:date;not null;index:idx_bill_enrollment_due,priority:2" json:"monthly_bill_due_date"`
	MonthlyBillPaidAt  *time.Time `gorm:"column:monthly_bill_paid_at" json:"monthly_bill_paid_at,omitempty"`

	MonthlyBillStatus MonthlyBillStatus `gorm:"column:monthly_bill_status;type:varchar(20);not null;default:'pending';index" json:"monthly_bill_status"`

	MonthlyBillCreatedAt time.Time      `gorm:"column:monthly_bill_created_at;not null" json:"monthly_bill_created_at"`
	MonthlyBillUpdatedAt time.Time      `gorm:"column:monthly_bill_updated_at;not null" json:"monthly_bill_updated_at"`
	MonthlyBillDeletedAt gorm.DeletedAt `gorm:"column:monthly_bill_deleted_at;index" json:"-"`

	Student    studentModel.StudentModel     `gorm:"foreignKey:MonthlyBillStudentID;references:StudentID" json:"student,omitempty"`
	Plan       studentModel.PlanModel        `gorm:"foreignKey:MonthlyBillPlanID;references:PlanID" json:"plan,omitempty"`
	Enrollment *studentModel.EnrollmentModel `gorm:"foreignKey:MonthlyBillEnrollmentID;references:EnrollmentID" json:"enrollment,omitempty"`
}

func (MonthlyBillModel) TableName() string { return "monthly_bills" }

func (m *MonthlyBillModel) BeforeCreate(tx *gorm.DB) error {
	if m.MonthlyBillID == uuid.Nil {
		m.MonthlyBillID = uuid.New()
	}
	now := time.Now()
	if m.MonthlyBillCreatedAt.IsZero() {
		m.MonthlyBillCreatedAt = now
	}
	m.MonthlyBillUpdatedAt = now
	if m.MonthlyBillStatus == "" {
		m.MonthlyBillStatus = MonthlyBillStatusPending
	}
	return nil
}

func (m *MonthlyBillModel) BeforeUpdate(tx *gorm.DB) error {
	m.MonthlyBillUpdatedAt = time.Now()
	return nil
}
