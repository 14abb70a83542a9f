package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dojoku_backend/internals/constants"
	userModel "dojoku_backend/internals/features/academy/users/model"
	txModel "dojoku_backend/internals/features/finance/transactions/model"
)

/* =========================================================
   Virtual cash bucket: derived, never stored.

   bucket(u) = cash receipts collected by u
             - payout offsets netted against u

   Cumulative over all time: the bucket models physical cash
   currently in that staff member's custody. Negative values
   (imported or edited data) are reported as-is, not clamped.
========================================================= */

type CashBucketService struct {
	DB *gorm.DB
}

func NewCashBucketService(db *gorm.DB) *CashBucketService {
	return &CashBucketService{DB: db}
}

type StaffBucket struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	Role        string    `json:"role"`
	InflowCents int64     `json:"inflow_cents"`
	OffsetCents int64     `json:"offset_cents"`
	BucketCents int64     `json:"bucket_cents"`
}

// BucketFor computes one user's bucket on the given session, which may be
// an open transaction (the payout path depends on that).
func BucketFor(db *gorm.DB, userID uuid.UUID) (int64, error) {
	type row struct {
		V int64 `gorm:"column:v"`
	}

	var inflow row
	if err := db.Model(&txModel.FinancialTransactionModel{}).
		Select("COALESCE(SUM(transaction_amount_cents), 0) AS v").
		Where("transaction_kind = ? AND transaction_payment_form = ? AND transaction_responsible_user_id = ?",
			txModel.TransactionKindReceipt, txModel.PaymentFormCash, userID).
		Scan(&inflow).Error; err != nil {
		return 0, err
	}

	var outflow row
	if err := db.Model(&txModel.FinancialTransactionModel{}).
		Select("COALESCE(SUM(transaction_cash_offset_cents), 0) AS v").
		Where("transaction_cash_offset_cents > 0 AND transaction_beneficiary_user_id = ?", userID).
		Scan(&outflow).Error; err != nil {
		return 0, err
	}

	return inflow.V - outflow.V, nil
}

// ListBuckets enumerates every staff user, including those with zero
// activity, so the UI can render a uniform table. Also returns the total.
func (s *CashBucketService) ListBuckets(ctx context.Context) ([]StaffBucket, int64, error) {
	db := s.DB.WithContext(ctx)

	var staff []userModel.UserModel
	if err := db.
		Where("user_role IN ?", constants.StaffRoles).
		Order("user_full_name ASC").
		Find(&staff).Error; err != nil {
		return nil, 0, err
	}

	type grouped struct {
		UserID uuid.UUID `gorm:"column:uid"`
		Total  int64     `gorm:"column:total"`
	}

	inflows := map[uuid.UUID]int64{}
	var inRows []grouped
	if err := db.Model(&txModel.FinancialTransactionModel{}).
		Select("transaction_responsible_user_id AS uid, COALESCE(SUM(transaction_amount_cents), 0) AS total").
		Where("transaction_kind = ? AND transaction_payment_form = ? AND transaction_responsible_user_id IS NOT NULL",
			txModel.TransactionKindReceipt, txModel.PaymentFormCash).
		Group("transaction_responsible_user_id").
		Scan(&inRows).Error; err != nil {
		return nil, 0, err
	}
	for _, r := range inRows {
		inflows[r.UserID] = r.Total
	}

	outflows := map[uuid.UUID]int64{}
	var outRows []grouped
	if err := db.Model(&txModel.FinancialTransactionModel{}).
		Select("transaction_beneficiary_user_id AS uid, COALESCE(SUM(transaction_cash_offset_cents), 0) AS total").
		Where("transaction_cash_offset_cents > 0 AND transaction_beneficiary_user_id IS NOT NULL").
		Group("transaction_beneficiary_user_id").
		Scan(&outRows).Error; err != nil {
		return nil, 0, err
	}
	for _, r := range outRows {
		outflows[r.UserID] = r.Total
	}

	buckets := make([]StaffBucket, 0, len(staff))
	var total int64
	for _, u := range staff {
		b := StaffBucket{
			UserID:      u.UserID,
			Username:    u.UserUsername,
			FullName:    u.UserFullName,
			Role:        u.UserRole,
			InflowCents: inflows[u.UserID],
			OffsetCents: outflows[u.UserID],
		}
		b.BucketCents = b.InflowCents - b.OffsetCents
		total += b.BucketCents
		buckets = append(buckets, b)
	}
	return buckets, total, nil
}
