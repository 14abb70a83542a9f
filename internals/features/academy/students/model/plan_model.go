package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanModel struct {
	PlanID uuid.UUID `gorm:"column:plan_id;type:uuid;primaryKey" json:"plan_id"`

	PlanName string `gorm:"column:plan_name;type:varchar(80);not null" json:"plan_name"`

	// Amount charged per billing period, in cents.
	PlanAmountCents  int64 `gorm:"column:plan_amount_cents;not null;check:plan_amount_cents >= 0" json:"plan_amount_cents"`
	PlanPeriodMonths int   `gorm:"column:plan_period_months;not null;default:1;check:plan_period_months >= 1" json:"plan_period_months"`

	PlanCreatedAt time.Time      `gorm:"column:plan_created_at;not null" json:"plan_created_at"`
	PlanUpdatedAt time.Time      `gorm:"column:plan_updated_at;not null" json:"plan_updated_at"`
	PlanDeletedAt gorm.DeletedAt `gorm:"column:plan_deleted_at;index" json:"-"`
}

func (PlanModel) TableName() string { return "plans" }

func (m *PlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.PlanID == uuid.Nil {
		m.PlanID = uuid.New()
	}
	now := time.Now()
	if m.PlanCreatedAt.IsZero() {
		m.PlanCreatedAt = now
	}
	m.PlanUpdatedAt = now
	return nil
}

func (m *PlanModel) BeforeUpdate(tx *gorm.DB) error {
	m.PlanUpdatedAt = time.Now()
	return nil
}
