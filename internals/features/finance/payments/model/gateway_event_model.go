package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GatewayEventStatus string

const (
	GatewayEventStatusReceived GatewayEventStatus = "received"
	GatewayEventStatusApplied  GatewayEventStatus = "applied"
	GatewayEventStatusIgnored  GatewayEventStatus = "ignored"
	GatewayEventStatusFailed   GatewayEventStatus = "failed"
)

/* ==============================================
   MODEL: payment_gateway_events
   One row per webhook delivery (for debug/replay).
============================================== */

type PaymentGatewayEventModel struct {
	GatewayEventID uuid.UUID `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`

	GatewayEventProvider    string  `gorm:"column:gateway_event_provider;type:varchar(40);not null;index" json:"gateway_event_provider"`
	GatewayEventExternalRef *string `gorm:"column:gateway_event_external_ref;type:varchar(120);index" json:"gateway_event_external_ref,omitempty"`

	GatewayEventPayload datatypes.JSON `gorm:"column:gateway_event_payload;type:jsonb" json:"gateway_event_payload"`

	GatewayEventStatus GatewayEventStatus `gorm:"column:gateway_event_status;type:varchar(20);not null;default:'received'" json:"gateway_event_status"`
	GatewayEventError  *string            `gorm:"column:gateway_event_error;type:text" json:"gateway_event_error,omitempty"`

	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at,omitempty"`
}

func (PaymentGatewayEventModel) TableName() string { return "payment_gateway_events" }

func (m *PaymentGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if m.GatewayEventID == uuid.Nil {
		m.GatewayEventID = uuid.New()
	}
	if m.GatewayEventReceivedAt.IsZero() {
		m.GatewayEventReceivedAt = time.Now()
	}
	if m.GatewayEventStatus == "" {
		m.GatewayEventStatus = GatewayEventStatusReceived
	}
	return nil
}
