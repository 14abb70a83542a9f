package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	billModel "dojoku_backend/internals/features/finance/billings/model"
	txModel "dojoku_backend/internals/features/finance/transactions/model"
	helper "dojoku_backend/internals/helpers"
)

/* =========================================================
   LedgerService: CRUD + queries over the transaction log.
========================================================= */

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

type TransactionFilter struct {
	Kind     string
	Category string
	Search   string
	From     *time.Time // inclusive, date precision
	To       *time.Time // inclusive, date precision
	Offset   int
	Limit    int
}

func (s *LedgerService) query(ctx context.Context, f TransactionFilter) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(&txModel.FinancialTransactionModel{})
	if f.Kind != "" {
		q = q.Where("transaction_kind = ?", f.Kind)
	}
	if f.Category != "" {
		q = q.Where("transaction_category = ?", f.Category)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(transaction_description) LIKE ? OR LOWER(COALESCE(transaction_observations, '')) LIKE ?",
			like, like)
	}
	if f.From != nil {
		q = q.Where("transaction_occurred_at >= ?", truncateToDay(*f.From))
	}
	if f.To != nil {
		q = q.Where("transaction_occurred_at < ?", truncateToDay(*f.To).AddDate(0, 0, 1))
	}
	return q
}

func (s *LedgerService) List(ctx context.Context, f TransactionFilter) ([]txModel.FinancialTransactionModel, int64, error) {
	q := s.query(ctx, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []txModel.FinancialTransactionModel
	if err := q.
		Order("transaction_occurred_at DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *LedgerService) Get(ctx context.Context, id uuid.UUID) (*txModel.FinancialTransactionModel, error) {
	var row txModel.FinancialTransactionModel
	if err := s.DB.WithContext(ctx).Take(&row, "transaction_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (s *LedgerService) Create(ctx context.Context, m *txModel.FinancialTransactionModel) error {
	if err := validateOffsetInvariant(m); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Create(m).Error
}

// Update replaces the mutable fields. Edits reshape the cash bucket
// immediately since the bucket is recomputed on every read.
func (s *LedgerService) Update(ctx context.Context, id uuid.UUID, apply func(*txModel.FinancialTransactionModel) error) (*txModel.FinancialTransactionModel, error) {
	var row txModel.FinancialTransactionModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&row, "transaction_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.ErrNotFound
			}
			return err
		}
		if err := apply(&row); err != nil {
			return err
		}
		if err := validateOffsetInvariant(&row); err != nil {
			return err
		}
		auditTransactionEdit(&row)
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *LedgerService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&txModel.FinancialTransactionModel{}, "transaction_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound
	}
	return nil
}

// auditTransactionEdit is the hook for logging edits to bucket-relevant
// fields (offset, responsible user). TODO: persist to an audit table once
// the audit policy is decided.
func auditTransactionEdit(m *txModel.FinancialTransactionModel) {}

func validateOffsetInvariant(m *txModel.FinancialTransactionModel) error {
	if m.TransactionAmountCents <= 0 {
		return helper.NewValidation("amount must be positive")
	}
	if m.TransactionCashOffsetCents < 0 {
		return helper.NewValidation("cash offset cannot be negative")
	}
	if m.TransactionCashOffsetCents > m.TransactionAmountCents {
		return helper.NewValidation("cash offset cannot exceed the amount")
	}
	if m.TransactionCashOffsetCents > 0 {
		if m.TransactionKind != txModel.TransactionKindExpense {
			return helper.NewValidation("cash offset applies only to expenses")
		}
		if m.TransactionBeneficiaryUserID == nil {
			return helper.NewValidation("cash offset requires a beneficiary user")
		}
	}
	return nil
}

/* =========================================================
   Period balance
========================================================= */

type CategoryTotal struct {
	Category   string `json:"category" gorm:"column:transaction_category"`
	TotalCents int64  `json:"total_cents" gorm:"column:total_cents"`
}

type BalanceResult struct {
	ReceiptsCents       int64           `json:"receipts_cents"`
	ExpensesCents       int64           `json:"expenses_cents"`
	NetCents            int64           `json:"net_cents"`
	Count               int64           `json:"count"`
	PendingBillsOverdue int64           `json:"pending_bills_overdue"`
	ExpensesByCategory  []CategoryTotal `json:"expenses_by_category"`
}

// Balance aggregates confirmed transactions in [from, to] (dates,
// inclusive) plus the count of pending bills already due.
func (s *LedgerService) Balance(ctx context.Context, from, to *time.Time) (BalanceResult, error) {
	var out BalanceResult

	base := s.query(ctx, TransactionFilter{From: from, To: to}).
		Where("transaction_status = ?", txModel.TransactionStatusConfirmed)

	type sums struct {
		Receipts int64 `gorm:"column:receipts"`
		Expenses int64 `gorm:"column:expenses"`
		Total    int64 `gorm:"column:total"`
	}
	var sm sums
	if err := base.Session(&gorm.Session{}).
		Select(`
			COALESCE(SUM(CASE WHEN transaction_kind = 'receipt' THEN transaction_amount_cents ELSE 0 END), 0) AS receipts,
			COALESCE(SUM(CASE WHEN transaction_kind = 'expense' THEN transaction_amount_cents ELSE 0 END), 0) AS expenses,
			COUNT(*) AS total`).
		Scan(&sm).Error; err != nil {
		return out, err
	}
	out.ReceiptsCents = sm.Receipts
	out.ExpensesCents = sm.Expenses
	out.NetCents = sm.Receipts - sm.Expenses
	out.Count = sm.Total

	today := truncateToDay(time.Now()).AddDate(0, 0, 1)
	if err := s.DB.WithContext(ctx).Model(&billModel.MonthlyBillModel{}).
		Where("monthly_bill_status = ? AND monthly_bill_due_date < ?",
			billModel.MonthlyBillStatusPending, today).
		Count(&out.PendingBillsOverdue).Error; err != nil {
		return out, err
	}

	if err := s.query(ctx, TransactionFilter{From: from, To: to}).
		Where("transaction_status = ? AND transaction_kind = ?",
			txModel.TransactionStatusConfirmed, txModel.TransactionKindExpense).
		Select("transaction_category, COALESCE(SUM(transaction_amount_cents), 0) AS total_cents").
		Group("transaction_category").
		Order("total_cents DESC").
		Scan(&out.ExpensesByCategory).Error; err != nil {
		return out, err
	}
	if out.ExpensesByCategory == nil {
		out.ExpensesByCategory = []CategoryTotal{}
	}
	return out, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
