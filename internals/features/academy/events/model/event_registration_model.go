package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	studentModel "dojoku_backend/internals/features/academy/students/model"
)

/* ==============================
   ENUM: registration status
============================== */

type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusPaid      RegistrationStatus = "paid"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
)

/* ==============================================
   MODEL: event_registrations
   Invariant: (student, event) unique among
   non-cancelled rows (partial index, databases).
============================================== */

type EventRegistrationModel struct {
	RegistrationID uuid.UUID `gorm:"column:registration_id;type:uuid;primaryKey" json:"registration_id"`

	RegistrationEventID   uuid.UUID `gorm:"column:registration_event_id;type:uuid;not null;index" json:"registration_event_id"`
	RegistrationStudentID uuid.UUID `gorm:"column:registration_student_id;type:uuid;not null;index" json:"registration_student_id"`

	RegistrationStatus RegistrationStatus `gorm:"column:registration_status;type:varchar(20);not null;default:'pending';index" json:"registration_status"`

	RegistrationPaidAmountCents *int64  `gorm:"column:registration_paid_amount_cents;check:registration_paid_amount_cents >= 0" json:"registration_paid_amount_cents,omitempty"`
	RegistrationPaymentMethod   *string `gorm:"column:registration_payment_method;type:varchar(40)" json:"registration_payment_method,omitempty"`

	RegistrationCreatedAt time.Time      `gorm:"column:registration_created_at;not null" json:"registration_created_at"`
	RegistrationUpdatedAt time.Time      `gorm:"column:registration_updated_at;not null" json:"registration_updated_at"`
	RegistrationDeletedAt gorm.DeletedAt `gorm:"column:registration_deleted_at;index" json:"-"`

	Event   EventModel                `gorm:"foreignKey:RegistrationEventID;references:EventID" json:"event,omitempty"`
	Student studentModel.StudentModel `gorm:"foreignKey:RegistrationStudentID;references:StudentID" json:"student,omitempty"`
}

func (EventRegistrationModel) TableName() string { return "event_registrations" }

func (m *EventRegistrationModel) BeforeCreate(tx *gorm.DB) error {
	if m.RegistrationID == uuid.Nil {
		m.RegistrationID = uuid.New()
	}
	now := time.Now()
	if m.RegistrationCreatedAt.IsZero() {
		m.RegistrationCreatedAt = now
	}
	m.RegistrationUpdatedAt = now
	if m.RegistrationStatus == "" {
		m.RegistrationStatus = RegistrationStatusPending
	}
	return nil
}

func (m *EventRegistrationModel) BeforeUpdate(tx *gorm.DB) error {
	m.RegistrationUpdatedAt = time.Now()
	return nil
}
