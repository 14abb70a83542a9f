package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userModel "dojoku_backend/internals/features/academy/users/model"
	txModel "dojoku_backend/internals/features/finance/transactions/model"
	helper "dojoku_backend/internals/helpers"
)

/* =========================================================
   Payout with offset: one expense row that simultaneously
   consumes part of the beneficiary's virtual cash bucket.

   The bucket read and the insert run in one transaction,
   serialized against concurrent payouts and cash receipts
   for the same user by a FOR UPDATE lock on the user row.
========================================================= */

type PayoutService struct {
	DB *gorm.DB
}

func NewPayoutService(db *gorm.DB) *PayoutService {
	return &PayoutService{DB: db}
}

type PayoutInput struct {
	BeneficiaryUserID uuid.UUID
	Category          string
	AmountCents       int64
	CashOffsetCents   int64
	Description       string
	PaymentForm       string
	RecordedBy        *uuid.UUID
}

func (s *PayoutService) RecordPayout(ctx context.Context, in PayoutInput) (*txModel.FinancialTransactionModel, error) {
	if in.AmountCents <= 0 {
		return nil, helper.NewValidation("amount must be positive")
	}
	if in.CashOffsetCents < 0 || in.CashOffsetCents > in.AmountCents {
		return nil, helper.NewValidation("cash offset must be between 0 and the amount")
	}
	if in.Category == "" {
		in.Category = txModel.CategoryPayroll
	}
	if in.PaymentForm == "" {
		in.PaymentForm = txModel.PaymentFormCash
	}

	var out txModel.FinancialTransactionModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock on the beneficiary serializes concurrent payouts and
		// cash receipts on Postgres. SQLite (test harness) already runs
		// a single writer per database.
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var beneficiary userModel.UserModel
		if err := q.Take(&beneficiary, "user_id = ?", in.BeneficiaryUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.ErrNotFound
			}
			return err
		}
		if !beneficiary.IsStaff() {
			return helper.NewValidation("beneficiary must be a staff user")
		}

		if in.CashOffsetCents > 0 {
			bucket, err := BucketFor(tx, in.BeneficiaryUserID)
			if err != nil {
				return err
			}
			if in.CashOffsetCents > bucket {
				return helper.ErrInsufficientBucket
			}
		}

		beneficiaryID := in.BeneficiaryUserID
		out = txModel.FinancialTransactionModel{
			TransactionKind:              txModel.TransactionKindExpense,
			TransactionCategory:          in.Category,
			TransactionAmountCents:       in.AmountCents,
			TransactionDescription:       in.Description,
			TransactionPaymentForm:       in.PaymentForm,
			TransactionStatus:            txModel.TransactionStatusConfirmed,
			TransactionResponsibleUserID: in.RecordedBy,
			TransactionBeneficiaryUserID: &beneficiaryID,
			TransactionCashOffsetCents:   in.CashOffsetCents,
		}
		return tx.Create(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
