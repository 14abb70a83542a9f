package dto

import "github.com/google/uuid"

// PayCashRequest: manual cash payment over the counter.
type PayCashRequest struct {
	CollectorUserID *uuid.UUID `json:"collector_user_id"`
}

// ConfirmManualRequest: staff confirms a registration payment.
type ConfirmManualRequest struct {
	Method          string     `json:"method" validate:"required,max=40"`
	CollectorUserID *uuid.UUID `json:"collector_user_id"`
}

// PaymentNotification: the gateway-agnostic webhook payload.
type PaymentNotification struct {
	ExternalReference string `json:"external_reference"`
	Status            string `json:"status"`
	Gateway           string `json:"gateway"`
}
