package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"dojoku_backend/internals/constants"
	txModel "dojoku_backend/internals/features/finance/transactions/model"
	helper "dojoku_backend/internals/helpers"
)

func TestRecordPayoutConsumesBucket(t *testing.T) {
	db := newTestDB(t)
	instructor := seedStaff(t, db, "joao", constants.RoleInstructor)
	seedCashReceipt(t, db, instructor.UserID, 10000)
	svc := NewPayoutService(db)

	out, err := svc.RecordPayout(context.Background(), PayoutInput{
		BeneficiaryUserID: instructor.UserID,
		AmountCents:       8000,
		CashOffsetCents:   5000,
		Description:       "February classes",
	})
	if err != nil {
		t.Fatalf("payout: %v", err)
	}
	if out.TransactionKind != txModel.TransactionKindExpense ||
		out.TransactionCategory != txModel.CategoryPayroll {
		t.Fatalf("unexpected payout row: %+v", out)
	}
	if out.TransactionCashOffsetCents != 5000 {
		t.Fatalf("offset = %d, want 5000", out.TransactionCashOffsetCents)
	}

	bucket, err := BucketFor(db, instructor.UserID)
	if err != nil {
		t.Fatalf("bucket: %v", err)
	}
	if bucket != 5000 {
		t.Fatalf("bucket = %d, want 10000 - 5000", bucket)
	}
}

func TestRecordPayoutRejectsOffsetAboveBucket(t *testing.T) {
	db := newTestDB(t)
	instructor := seedStaff(t, db, "joao", constants.RoleInstructor)
	seedCashReceipt(t, db, instructor.UserID, 3000)
	svc := NewPayoutService(db)

	_, err := svc.RecordPayout(context.Background(), PayoutInput{
		BeneficiaryUserID: instructor.UserID,
		AmountCents:       8000,
		CashOffsetCents:   5000,
		Description:       "February classes",
	})
	if !errors.Is(err, helper.ErrInsufficientBucket) {
		t.Fatalf("err = %v, want InsufficientBucket", err)
	}

	// The rejected payout must leave no trace in the ledger.
	var n int64
	if err := db.Model(&txModel.FinancialTransactionModel{}).
		Where("transaction_kind = ?", txModel.TransactionKindExpense).
		Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expense rows = %d, want 0", n)
	}

	bucket, err := BucketFor(db, instructor.UserID)
	if err != nil {
		t.Fatalf("bucket: %v", err)
	}
	if bucket != 3000 {
		t.Fatalf("bucket = %d, want untouched 3000", bucket)
	}
}

func TestRecordPayoutWithoutOffsetNeedsNoBucket(t *testing.T) {
	db := newTestDB(t)
	instructor := seedStaff(t, db, "joao", constants.RoleInstructor)
	svc := NewPayoutService(db)

	out, err := svc.RecordPayout(context.Background(), PayoutInput{
		BeneficiaryUserID: instructor.UserID,
		AmountCents:       8000,
		Description:       "February classes",
	})
	if err != nil {
		t.Fatalf("payout: %v", err)
	}
	if out.TransactionCashOffsetCents != 0 {
		t.Fatalf("offset = %d, want 0", out.TransactionCashOffsetCents)
	}
}

func TestRecordPayoutValidatesBeneficiary(t *testing.T) {
	db := newTestDB(t)
	svc := NewPayoutService(db)
	ctx := context.Background()

	_, err := svc.RecordPayout(ctx, PayoutInput{
		BeneficiaryUserID: uuid.New(),
		AmountCents:       1000,
	})
	if !errors.Is(err, helper.ErrNotFound) {
		t.Fatalf("missing user err = %v, want NotFound", err)
	}

	student := seedStaff(t, db, "aluno", constants.RoleStudent)
	_, err = svc.RecordPayout(ctx, PayoutInput{
		BeneficiaryUserID: student.UserID,
		AmountCents:       1000,
	})
	if err == nil {
		t.Fatal("non-staff beneficiary accepted")
	}
}

func TestListBucketsIncludesIdleStaff(t *testing.T) {
	db := newTestDB(t)
	attendant := seedStaff(t, db, "ana", constants.RoleAttendant)
	instructor := seedStaff(t, db, "joao", constants.RoleInstructor)
	_ = seedStaff(t, db, "aluno", constants.RoleStudent)
	seedCashReceipt(t, db, attendant.UserID, 12000)

	if _, err := NewPayoutService(db).RecordPayout(context.Background(), PayoutInput{
		BeneficiaryUserID: attendant.UserID,
		AmountCents:       4000,
		CashOffsetCents:   4000,
		Description:       "advance",
	}); err != nil {
		t.Fatalf("payout: %v", err)
	}

	buckets, total, err := NewCashBucketService(db).ListBuckets(context.Background())
	if err != nil {
		t.Fatalf("list buckets: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want the 2 staff users only", len(buckets))
	}

	byID := map[uuid.UUID]StaffBucket{}
	for _, b := range buckets {
		byID[b.UserID] = b
	}
	if b := byID[attendant.UserID]; b.InflowCents != 12000 || b.OffsetCents != 4000 || b.BucketCents != 8000 {
		t.Fatalf("attendant bucket: %+v", b)
	}
	if b := byID[instructor.UserID]; b.BucketCents != 0 {
		t.Fatalf("idle instructor bucket: %+v", b)
	}
	if total != 8000 {
		t.Fatalf("total = %d, want 8000", total)
	}
}

func TestBucketIgnoresNonCashReceipts(t *testing.T) {
	db := newTestDB(t)
	attendant := seedStaff(t, db, "ana", constants.RoleAttendant)

	card := txModel.FinancialTransactionModel{
		TransactionKind:              txModel.TransactionKindReceipt,
		TransactionCategory:          txModel.CategoryMonthly,
		TransactionAmountCents:       9000,
		TransactionDescription:       "card receipt",
		TransactionPaymentForm:       "Card",
		TransactionResponsibleUserID: &attendant.UserID,
	}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	bucket, err := BucketFor(db, attendant.UserID)
	if err != nil {
		t.Fatalf("bucket: %v", err)
	}
	if bucket != 0 {
		t.Fatalf("bucket = %d, card money never enters it", bucket)
	}
}
