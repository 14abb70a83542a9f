package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dojoku_backend/internals/configs"
	studentModel "dojoku_backend/internals/features/academy/students/model"
	billModel "dojoku_backend/internals/features/finance/billings/model"
	helper "dojoku_backend/internals/helpers"
	"dojoku_backend/internals/observability"
)

/* =========================================================
   BillGeneratorService: idempotent monthly bill batch.

   For every active enrollment, ensure a pending bill exists
   for (enrollment, due day of M/Y). The whole batch runs in
   one transaction: any persistence error rolls back all of
   it. Re-running for the same month creates nothing new and
   never touches existing amounts.
========================================================= */

type BillGeneratorService struct {
	DB     *gorm.DB
	DueDay int
}

type GenerateResult struct {
	Month   int `json:"month"`
	Year    int `json:"year"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

func NewBillGeneratorService(db *gorm.DB) *BillGeneratorService {
	dueDay := configs.BillingDueDay
	if dueDay < 1 || dueDay > 28 {
		dueDay = 10
	}
	return &BillGeneratorService{DB: db, DueDay: dueDay}
}

// NextTarget returns the month following now, the default target so bills
// can be generated ahead of time.
func NextTarget(now time.Time) (month, year int) {
	next := now.AddDate(0, 1, 0)
	return int(next.Month()), next.Year()
}

func (s *BillGeneratorService) GenerateForMonth(ctx context.Context, month, year int) (GenerateResult, error) {
	if month < 1 || month > 12 {
		return GenerateResult{}, helper.NewValidation("month must be between 1 and 12")
	}
	if year < 2000 || year > 2200 {
		return GenerateResult{}, helper.NewValidation("year out of range")
	}

	due := time.Date(year, time.Month(month), s.DueDay, 0, 0, 0, 0, time.UTC)
	res := GenerateResult{Month: month, Year: year}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollments []studentModel.EnrollmentModel
		if err := tx.
			Preload("Plan").
			Preload("Student").
			Where("enrollment_is_active = ?", true).
			Find(&enrollments).Error; err != nil {
			return err
		}

		for i := range enrollments {
			e := &enrollments[i]

			// Broken rows are logged and skipped, never abort the batch.
			if e.Plan.PlanID == uuid.Nil || e.Student.StudentID == uuid.Nil {
				slog.Warn("billgen: enrollment without plan or student, skipping",
					"enrollment_id", e.EnrollmentID)
				res.Skipped++
				continue
			}

			// Idempotence key: (enrollment_id, due_date) among non-cancelled.
			var count int64
			if err := tx.Model(&billModel.MonthlyBillModel{}).
				Where("monthly_bill_enrollment_id = ? AND monthly_bill_due_date = ? AND monthly_bill_status <> ?",
					e.EnrollmentID, due, billModel.MonthlyBillStatusCancelled).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				res.Skipped++
				continue
			}

			enrollmentID := e.EnrollmentID
			bill := billModel.MonthlyBillModel{
				MonthlyBillStudentID:    e.EnrollmentStudentID,
				MonthlyBillPlanID:       e.EnrollmentPlanID,
				MonthlyBillEnrollmentID: &enrollmentID,
				MonthlyBillAmountCents:  e.Plan.PlanAmountCents,
				MonthlyBillDueDate:      due,
				MonthlyBillStatus:       billModel.MonthlyBillStatusPending,
			}
			if err := tx.Create(&bill).Error; err != nil {
				return err
			}
			res.Created++
		}
		return nil
	})
	if err != nil {
		return GenerateResult{}, err
	}

	observability.BillsGenerated.Add(float64(res.Created))
	return res, nil
}
