package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ==============================
   ENUMS: transaction kind/status
============================== */

type TransactionKind string

const (
	TransactionKindReceipt TransactionKind = "receipt"
	TransactionKindExpense TransactionKind = "expense"
)

type TransactionStatus string

const (
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Categories written by the financial core. Free-form values are allowed too.
const (
	CategoryMonthly       = "Monthly"
	CategoryEvent         = "Event"
	CategoryEventReversal = "Event-Reversal"
	CategoryPayroll       = "Payroll"
)

// Payment forms the core treats specially.
const (
	PaymentFormCash = "Cash"
	PaymentFormFree = "Free"
)

/* ==============================================
   MODEL: financial_transactions (the ledger)

   Single-sided typed records: one row is either a
   receipt or an expense. cash_offset_cents is the
   portion of a staff payout netted against that
   staff member's virtual cash bucket.
============================================== */

type FinancialTransactionModel struct {
	TransactionID uuid.UUID `gorm:"column:transaction_id;type:uuid;primaryKey" json:"transaction_id"`

	TransactionKind     TransactionKind `gorm:"column:transaction_kind;type:varchar(10);not null;index" json:"transaction_kind"`
	TransactionCategory string          `gorm:"column:transaction_category;type:varchar(60);not null;index" json:"transaction_category"`

	TransactionAmountCents int64 `gorm:"column:transaction_amount_cents;not null;check:transaction_amount_cents > 0" json:"transaction_amount_cents"`

	TransactionDescription  string  `gorm:"column:transaction_description;type:text;not null" json:"transaction_description"`
	TransactionObservations *string `gorm:"column:transaction_observations;type:text" json:"transaction_observations,omitempty"`

	TransactionOccurredAt  time.Time         `gorm:"column:transaction_occurred_at;not null;index" json:"transaction_occurred_at"`
	TransactionPaymentForm string            `gorm:"column:transaction_payment_form;type:varchar(40);not null;index" json:"transaction_payment_form"`
	TransactionStatus      TransactionStatus `gorm:"column:transaction_status;type:varchar(20);not null;default:'confirmed';index" json:"transaction_status"`

	// Staff who recorded/collected the money (cash receipts).
	TransactionResponsibleUserID *uuid.UUID `gorm:"column:transaction_responsible_user_id;type:uuid;index" json:"transaction_responsible_user_id,omitempty"`

	// Staff receiving a payout (expenses only).
	TransactionBeneficiaryUserID *uuid.UUID `gorm:"column:transaction_beneficiary_user_id;type:uuid;index" json:"transaction_beneficiary_user_id,omitempty"`

	// Portion of an expense settled from the beneficiary's cash bucket.
	TransactionCashOffsetCents int64 `gorm:"column:transaction_cash_offset_cents;not null;default:0;check:transaction_cash_offset_cents >= 0 AND transaction_cash_offset_cents <= transaction_amount_cents" json:"transaction_cash_offset_cents"`

	TransactionCreatedAt time.Time `gorm:"column:transaction_created_at;not null" json:"transaction_created_at"`
	TransactionUpdatedAt time.Time `gorm:"column:transaction_updated_at;not null" json:"transaction_updated_at"`
}

func (FinancialTransactionModel) TableName() string { return "financial_transactions" }

func (m *FinancialTransactionModel) BeforeCreate(tx *gorm.DB) error {
	if m.TransactionID == uuid.Nil {
		m.TransactionID = uuid.New()
	}
	now := time.Now()
	if m.TransactionCreatedAt.IsZero() {
		m.TransactionCreatedAt = now
	}
	m.TransactionUpdatedAt = now
	if m.TransactionOccurredAt.IsZero() {
		m.TransactionOccurredAt = now
	}
	if m.TransactionStatus == "" {
		m.TransactionStatus = TransactionStatusConfirmed
	}
	return nil
}

func (m *FinancialTransactionModel) BeforeUpdate(tx *gorm.DB) error {
	m.TransactionUpdatedAt = time.Now()
	return nil
}
