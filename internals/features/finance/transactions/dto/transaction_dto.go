package dto

import (
	"time"

	"github.com/google/uuid"

	model "dojoku_backend/internals/features/finance/transactions/model"
)

type CreateTransactionRequest struct {
	Kind         string     `json:"kind" validate:"required,oneof=receipt expense"`
	Category     string     `json:"category" validate:"required,max=60"`
	AmountCents  int64      `json:"amount_cents" validate:"required,gt=0"`
	Description  string     `json:"description" validate:"required"`
	Observations *string    `json:"observations"`
	OccurredAt   *time.Time `json:"occurred_at"`
	PaymentForm  string     `json:"payment_form" validate:"required,max=40"`
	Status       string     `json:"status" validate:"omitempty,oneof=confirmed pending cancelled"`

	ResponsibleUserID *uuid.UUID `json:"responsible_user_id"`
	BeneficiaryUserID *uuid.UUID `json:"beneficiary_user_id"`
	CashOffsetCents   int64      `json:"cash_offset_cents" validate:"gte=0"`
}

func (r *CreateTransactionRequest) ToModel() *model.FinancialTransactionModel {
	m := &model.FinancialTransactionModel{
		TransactionKind:              model.TransactionKind(r.Kind),
		TransactionCategory:          r.Category,
		TransactionAmountCents:       r.AmountCents,
		TransactionDescription:       r.Description,
		TransactionObservations:      r.Observations,
		TransactionPaymentForm:       r.PaymentForm,
		TransactionStatus:            model.TransactionStatus(r.Status),
		TransactionResponsibleUserID: r.ResponsibleUserID,
		TransactionBeneficiaryUserID: r.BeneficiaryUserID,
		TransactionCashOffsetCents:   r.CashOffsetCents,
	}
	if r.OccurredAt != nil {
		m.TransactionOccurredAt = *r.OccurredAt
	}
	return m
}

// UpdateTransactionRequest carries the mutable fields; nil means unchanged.
type UpdateTransactionRequest struct {
	Category     *string    `json:"category" validate:"omitempty,max=60"`
	Description  *string    `json:"description"`
	Observations *string    `json:"observations"`
	OccurredAt   *time.Time `json:"occurred_at"`
	PaymentForm  *string    `json:"payment_form" validate:"omitempty,max=40"`
	Status       *string    `json:"status" validate:"omitempty,oneof=confirmed pending cancelled"`

	Kind              *string    `json:"kind" validate:"omitempty,oneof=receipt expense"`
	AmountCents       *int64     `json:"amount_cents" validate:"omitempty,gt=0"`
	ResponsibleUserID *uuid.UUID `json:"responsible_user_id"`
	BeneficiaryUserID *uuid.UUID `json:"beneficiary_user_id"`
	CashOffsetCents   *int64     `json:"cash_offset_cents" validate:"omitempty,gte=0"`
}

func (r *UpdateTransactionRequest) Apply(m *model.FinancialTransactionModel) {
	if r.Category != nil {
		m.TransactionCategory = *r.Category
	}
	if r.Description != nil {
		m.TransactionDescription = *r.Description
	}
	if r.Observations != nil {
		m.TransactionObservations = r.Observations
	}
	if r.OccurredAt != nil {
		m.TransactionOccurredAt = *r.OccurredAt
	}
	if r.PaymentForm != nil {
		m.TransactionPaymentForm = *r.PaymentForm
	}
	if r.Status != nil {
		m.TransactionStatus = model.TransactionStatus(*r.Status)
	}
	if r.Kind != nil {
		m.TransactionKind = model.TransactionKind(*r.Kind)
	}
	if r.AmountCents != nil {
		m.TransactionAmountCents = *r.AmountCents
	}
	if r.ResponsibleUserID != nil {
		m.TransactionResponsibleUserID = r.ResponsibleUserID
	}
	if r.BeneficiaryUserID != nil {
		m.TransactionBeneficiaryUserID = r.BeneficiaryUserID
	}
	if r.CashOffsetCents != nil {
		m.TransactionCashOffsetCents = *r.CashOffsetCents
	}
}
