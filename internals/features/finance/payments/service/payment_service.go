package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "dojoku_backend/internals/features/academy/events/model"
	billModel "dojoku_backend/internals/features/finance/billings/model"
	txModel "dojoku_backend/internals/features/finance/transactions/model"
	helper "dojoku_backend/internals/helpers"
	"dojoku_backend/internals/observability"
)

/* =========================================================
   PaymentService: synchronous payment + reversal paths.

   Every operation commits the status bit and its ledger
   entry in one transaction; readers never observe one
   without the other. Status transitions are guarded by
   conditional UPDATE ... WHERE status='pending', so a
   concurrent second payer loses at the database, not at a
   stale read.
========================================================= */

type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

// PayBill marks a pending monthly bill paid and appends the receipt.
// collectorID is required when method is Cash.
func (s *PaymentService) PayBill(ctx context.Context, billID uuid.UUID, method string, collectorID *uuid.UUID) (*billModel.MonthlyBillModel, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, helper.NewValidation("payment method is required")
	}
	if method == txModel.PaymentFormCash && collectorID == nil {
		return nil, helper.ErrMissingCollector
	}

	var bill billModel.MonthlyBillModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Preload("Student").
			Preload("Plan").
			Take(&bill, "monthly_bill_id = ?", billID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.ErrNotFound
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&billModel.MonthlyBillModel{}).
			Where("monthly_bill_id = ? AND monthly_bill_status = ?",
				billID, billModel.MonthlyBillStatusPending).
			Updates(map[string]interface{}{
				"monthly_bill_status":     billModel.MonthlyBillStatusPaid,
				"monthly_bill_paid_at":    now,
				"monthly_bill_updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.ErrAlreadyPaid
		}

		receipt := txModel.FinancialTransactionModel{
			TransactionKind:     txModel.TransactionKindReceipt,
			TransactionCategory: txModel.CategoryMonthly,
			TransactionAmountCents: bill.MonthlyBillAmountCents,
			TransactionDescription: fmt.Sprintf("Monthly bill %s (due %s)",
				bill.Student.StudentFullName, bill.MonthlyBillDueDate.Format("2006-01-02")),
			TransactionOccurredAt:        now,
			TransactionPaymentForm:       method,
			TransactionStatus:            txModel.TransactionStatusConfirmed,
			TransactionResponsibleUserID: collectorID,
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}

		bill.MonthlyBillStatus = billModel.MonthlyBillStatusPaid
		bill.MonthlyBillPaidAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.PaymentsProcessed.WithLabelValues("bill").Inc()
	return &bill, nil
}

// PayRegistration marks a pending event registration paid. The paid amount
// comes from the event fee; zero-fee events transition directly to paid
// with method "Free" and no ledger entry.
func (s *PaymentService) PayRegistration(ctx context.Context, regID uuid.UUID, method string, collectorID *uuid.UUID) (*eventModel.EventRegistrationModel, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, helper.NewValidation("payment method is required")
	}

	var reg eventModel.EventRegistrationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Preload("Event").
			Preload("Student").
			Take(&reg, "registration_id = ?", regID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.ErrNotFound
			}
			return err
		}

		fee := reg.Event.EventFeeCents
		if fee > 0 && method == txModel.PaymentFormCash && collectorID == nil {
			return helper.ErrMissingCollector
		}

		paidMethod := method
		if fee == 0 {
			paidMethod = txModel.PaymentFormFree
		}

		now := time.Now()
		res := tx.Model(&eventModel.EventRegistrationModel{}).
			Where("registration_id = ? AND registration_status = ?",
				regID, eventModel.RegistrationStatusPending).
			Updates(map[string]interface{}{
				"registration_status":            eventModel.RegistrationStatusPaid,
				"registration_paid_amount_cents": fee,
				"registration_payment_method":    paidMethod,
				"registration_updated_at":        now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.ErrAlreadyPaid
		}

		if fee > 0 {
			receipt := txModel.FinancialTransactionModel{
				TransactionKind:        txModel.TransactionKindReceipt,
				TransactionCategory:    txModel.CategoryEvent,
				TransactionAmountCents: fee,
				TransactionDescription: fmt.Sprintf("Event registration %s: %s",
					reg.Event.EventName, reg.Student.StudentFullName),
				TransactionOccurredAt:        now,
				TransactionPaymentForm:       paidMethod,
				TransactionStatus:            txModel.TransactionStatusConfirmed,
				TransactionResponsibleUserID: collectorID,
			}
			if err := tx.Create(&receipt).Error; err != nil {
				return err
			}
		}

		reg.RegistrationStatus = eventModel.RegistrationStatusPaid
		reg.RegistrationPaidAmountCents = &fee
		reg.RegistrationPaymentMethod = &paidMethod
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.PaymentsProcessed.WithLabelValues("registration").Inc()
	return &reg, nil
}

// CancelRegistration cancels a registration. A previously paid registration
// with a positive paid amount gets a compensating "Event-Reversal" expense
// in the same commit.
func (s *PaymentService) CancelRegistration(ctx context.Context, regID uuid.UUID) (*eventModel.EventRegistrationModel, error) {
	var reg eventModel.EventRegistrationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Preload("Event").
			Preload("Student").
			Take(&reg, "registration_id = ?", regID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.ErrNotFound
			}
			return err
		}
		if reg.RegistrationStatus == eventModel.RegistrationStatusCancelled {
			return helper.ErrAlreadyCancelled
		}

		observed := reg.RegistrationStatus
		now := time.Now()
		res := tx.Model(&eventModel.EventRegistrationModel{}).
			Where("registration_id = ? AND registration_status = ?", regID, observed).
			Updates(map[string]interface{}{
				"registration_status":     eventModel.RegistrationStatusCancelled,
				"registration_updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Status changed under us; a concurrent cancel already won.
			var current eventModel.EventRegistrationModel
			if err := tx.Take(&current, "registration_id = ?", regID).Error; err == nil &&
				current.RegistrationStatus == eventModel.RegistrationStatusCancelled {
				return helper.ErrAlreadyCancelled
			}
			return helper.ErrConflict
		}

		if observed == eventModel.RegistrationStatusPaid &&
			reg.RegistrationPaidAmountCents != nil && *reg.RegistrationPaidAmountCents > 0 {
			refund := txModel.FinancialTransactionModel{
				TransactionKind:        txModel.TransactionKindExpense,
				TransactionCategory:    txModel.CategoryEventReversal,
				TransactionAmountCents: *reg.RegistrationPaidAmountCents,
				TransactionDescription: fmt.Sprintf("Refund event registration %s: %s",
					reg.Event.EventName, reg.Student.StudentFullName),
				TransactionOccurredAt:  now,
				TransactionPaymentForm: derefOr(reg.RegistrationPaymentMethod, txModel.PaymentFormCash),
				TransactionStatus:      txModel.TransactionStatusConfirmed,
			}
			if err := tx.Create(&refund).Error; err != nil {
				return err
			}
		}

		reg.RegistrationStatus = eventModel.RegistrationStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func derefOr(s *string, def string) string {
	if s != nil && *s != "" {
		return *s
	}
	return def
}
