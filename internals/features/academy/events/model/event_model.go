package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventModel struct {
	EventID uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`

	EventName     string `gorm:"column:event_name;type:varchar(120);not null" json:"event_name"`
	EventFeeCents int64  `gorm:"column:event_fee_cents;not null;default:0;check:event_fee_cents >= 0" json:"event_fee_cents"`

	// Capacity 0 means unlimited.
	EventCapacity int `gorm:"column:event_capacity;not null;default:0;check:event_capacity >= 0" json:"event_capacity"`

	EventStartsAt *time.Time `gorm:"column:event_starts_at" json:"event_starts_at,omitempty"`

	EventCreatedAt time.Time      `gorm:"column:event_created_at;not null" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;not null" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index" json:"-"`
}

func (EventModel) TableName() string { return "events" }

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	now := time.Now()
	if m.EventCreatedAt.IsZero() {
		m.EventCreatedAt = now
	}
	m.EventUpdatedAt = now
	return nil
}

func (m *EventModel) BeforeUpdate(tx *gorm.DB) error {
	m.EventUpdatedAt = time.Now()
	return nil
}
