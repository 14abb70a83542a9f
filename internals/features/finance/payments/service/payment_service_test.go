package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dojoku_backend/internals/constants"
	database "dojoku_backend/internals/databases"
	eventModel "dojoku_backend/internals/features/academy/events/model"
	studentModel "dojoku_backend/internals/features/academy/students/model"
	userModel "dojoku_backend/internals/features/academy/users/model"
	billModel "dojoku_backend/internals/features/finance/billings/model"
	txModel "dojoku_backend/internals/features/finance/transactions/model"
	txService "dojoku_backend/internals/features/finance/transactions/service"
	helper "dojoku_backend/internals/helpers"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func dueDate() time.Time {
	return time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
}

func seedStaff(t *testing.T, db *gorm.DB, username string) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserUsername: username,
		UserFullName: username,
		UserRole:     constants.RoleAttendant,
		UserIsActive: true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedPendingBill(t *testing.T, db *gorm.DB, amountCents int64) billModel.MonthlyBillModel {
	t.Helper()
	student := studentModel.StudentModel{StudentFullName: "Carla Dias"}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	plan := studentModel.PlanModel{PlanName: "Muay Thai", PlanAmountCents: amountCents, PlanPeriodMonths: 1}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("create plan: %v", err)
	}
	bill := billModel.MonthlyBillModel{
		MonthlyBillStudentID:   student.StudentID,
		MonthlyBillPlanID:      plan.PlanID,
		MonthlyBillAmountCents: amountCents,
		MonthlyBillDueDate:     dueDate(),
		MonthlyBillStatus:      billModel.MonthlyBillStatusPending,
	}
	if err := db.Create(&bill).Error; err != nil {
		t.Fatalf("create bill: %v", err)
	}
	return bill
}

func seedRegistration(t *testing.T, db *gorm.DB, feeCents int64) eventModel.EventRegistrationModel {
	t.Helper()
	student := studentModel.StudentModel{StudentFullName: "Davi Rocha"}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	event := eventModel.EventModel{EventName: "Belt Exam", EventFeeCents: feeCents}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	reg := eventModel.EventRegistrationModel{
		RegistrationEventID:   event.EventID,
		RegistrationStudentID: student.StudentID,
		RegistrationStatus:    eventModel.RegistrationStatusPending,
	}
	if err := db.Create(&reg).Error; err != nil {
		t.Fatalf("create registration: %v", err)
	}
	return reg
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&txModel.FinancialTransactionModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	return n
}

func TestPayBillCashCreatesReceiptAndFillsBucket(t *testing.T) {
	db := newTestDB(t)
	collector := seedStaff(t, db, "attendant")
	bill := seedPendingBill(t, db, 15000)
	svc := NewPaymentService(db)

	paid, err := svc.PayBill(context.Background(), bill.MonthlyBillID, txModel.PaymentFormCash, &collector.UserID)
	if err != nil {
		t.Fatalf("pay bill: %v", err)
	}
	if paid.MonthlyBillStatus != billModel.MonthlyBillStatusPaid {
		t.Fatalf("status = %s, want paid", paid.MonthlyBillStatus)
	}
	if paid.MonthlyBillPaidAt == nil {
		t.Fatal("paid_at not set")
	}

	var receipt txModel.FinancialTransactionModel
	if err := db.Take(&receipt).Error; err != nil {
		t.Fatalf("load receipt: %v", err)
	}
	if receipt.TransactionKind != txModel.TransactionKindReceipt ||
		receipt.TransactionCategory != txModel.CategoryMonthly ||
		receipt.TransactionAmountCents != 15000 {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if receipt.TransactionResponsibleUserID == nil || *receipt.TransactionResponsibleUserID != collector.UserID {
		t.Fatal("receipt not attributed to the collector")
	}

	bucket, err := txService.BucketFor(db, collector.UserID)
	if err != nil {
		t.Fatalf("bucket: %v", err)
	}
	if bucket != 15000 {
		t.Fatalf("bucket = %d, want 15000", bucket)
	}
}

func TestPayBillCashRequiresCollector(t *testing.T) {
	db := newTestDB(t)
	bill := seedPendingBill(t, db, 15000)

	_, err := NewPaymentService(db).PayBill(context.Background(), bill.MonthlyBillID, txModel.PaymentFormCash, nil)
	if !errors.Is(err, helper.ErrMissingCollector) {
		t.Fatalf("err = %v, want MissingCollector", err)
	}
	if n := countTransactions(t, db); n != 0 {
		t.Fatalf("transactions = %d, want 0", n)
	}
}

func TestPayBillTwiceReturnsAlreadyPaid(t *testing.T) {
	db := newTestDB(t)
	collector := seedStaff(t, db, "attendant")
	bill := seedPendingBill(t, db, 15000)
	svc := NewPaymentService(db)
	ctx := context.Background()

	if _, err := svc.PayBill(ctx, bill.MonthlyBillID, txModel.PaymentFormCash, &collector.UserID); err != nil {
		t.Fatalf("first pay: %v", err)
	}
	_, err := svc.PayBill(ctx, bill.MonthlyBillID, txModel.PaymentFormCash, &collector.UserID)
	if !errors.Is(err, helper.ErrAlreadyPaid) {
		t.Fatalf("err = %v, want AlreadyPaid", err)
	}
	if n := countTransactions(t, db); n != 1 {
		t.Fatalf("transactions = %d, want exactly 1", n)
	}
}

func TestPayFreeRegistrationSkipsLedger(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegistration(t, db, 0)

	paid, err := NewPaymentService(db).PayRegistration(context.Background(), reg.RegistrationID, txModel.PaymentFormCash, nil)
	if err != nil {
		t.Fatalf("pay registration: %v", err)
	}
	if paid.RegistrationStatus != eventModel.RegistrationStatusPaid {
		t.Fatalf("status = %s, want paid", paid.RegistrationStatus)
	}
	if paid.RegistrationPaymentMethod == nil || *paid.RegistrationPaymentMethod != txModel.PaymentFormFree {
		t.Fatal("zero-fee registration should settle as Free")
	}
	if n := countTransactions(t, db); n != 0 {
		t.Fatalf("transactions = %d, want 0 for a free event", n)
	}
}

func TestCancelPaidRegistrationCreatesReversal(t *testing.T) {
	db := newTestDB(t)
	collector := seedStaff(t, db, "attendant")
	reg := seedRegistration(t, db, 8000)
	svc := NewPaymentService(db)
	ctx := context.Background()

	if _, err := svc.PayRegistration(ctx, reg.RegistrationID, txModel.PaymentFormCash, &collector.UserID); err != nil {
		t.Fatalf("pay: %v", err)
	}
	cancelled, err := svc.CancelRegistration(ctx, reg.RegistrationID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.RegistrationStatus != eventModel.RegistrationStatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.RegistrationStatus)
	}

	var refund txModel.FinancialTransactionModel
	if err := db.Take(&refund, "transaction_category = ?", txModel.CategoryEventReversal).Error; err != nil {
		t.Fatalf("load refund: %v", err)
	}
	if refund.TransactionKind != txModel.TransactionKindExpense || refund.TransactionAmountCents != 8000 {
		t.Fatalf("unexpected refund: %+v", refund)
	}

	// Receipt plus reversal stay in the log; nothing is rewritten.
	if n := countTransactions(t, db); n != 2 {
		t.Fatalf("transactions = %d, want 2", n)
	}
}

func TestCancelPendingRegistrationHasNoLedgerEffect(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegistration(t, db, 8000)
	svc := NewPaymentService(db)
	ctx := context.Background()

	if _, err := svc.CancelRegistration(ctx, reg.RegistrationID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if n := countTransactions(t, db); n != 0 {
		t.Fatalf("transactions = %d, want 0", n)
	}

	_, err := svc.CancelRegistration(ctx, reg.RegistrationID)
	if !errors.Is(err, helper.ErrAlreadyCancelled) {
		t.Fatalf("second cancel err = %v, want AlreadyCancelled", err)
	}
}
