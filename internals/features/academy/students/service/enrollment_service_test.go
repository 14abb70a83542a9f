package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "dojoku_backend/internals/databases"
	studentModel "dojoku_backend/internals/features/academy/students/model"
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

func seedStudentAndPlan(t *testing.T, db *gorm.DB) (studentModel.StudentModel, studentModel.PlanModel) {
	t.Helper()
	student := studentModel.StudentModel{StudentFullName: "Elisa Nunes"}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	plan := studentModel.PlanModel{PlanName: "Judo Kids", PlanAmountCents: 12000, PlanPeriodMonths: 1}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return student, plan
}

func TestCreateEnrollmentEnforcesSingleActive(t *testing.T) {
	db := newTestDB(t)
	student, plan := seedStudentAndPlan(t, db)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	first, err := svc.CreateEnrollment(ctx, EnrollmentInput{StudentID: student.StudentID, PlanID: plan.PlanID})
	if err != nil {
		t.Fatalf("first enrollment: %v", err)
	}
	if !first.EnrollmentIsActive {
		t.Fatal("enrollment not active")
	}

	_, err = svc.CreateEnrollment(ctx, EnrollmentInput{StudentID: student.StudentID, PlanID: plan.PlanID})
	if !errors.Is(err, helper.ErrDuplicateEnrollment) {
		t.Fatalf("err = %v, want DuplicateEnrollment", err)
	}

	// After deactivation the student can enroll again (e.g. plan change).
	if err := svc.DeactivateEnrollment(ctx, first.EnrollmentID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.CreateEnrollment(ctx, EnrollmentInput{StudentID: student.StudentID, PlanID: plan.PlanID}); err != nil {
		t.Fatalf("re-enroll: %v", err)
	}
}

func TestCreateEnrollmentChecksReferences(t *testing.T) {
	db := newTestDB(t)
	student, plan := seedStudentAndPlan(t, db)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	if _, err := svc.CreateEnrollment(ctx, EnrollmentInput{StudentID: uuid.New(), PlanID: plan.PlanID}); !errors.Is(err, helper.ErrNotFound) {
		t.Fatalf("missing student err = %v, want NotFound", err)
	}
	if _, err := svc.CreateEnrollment(ctx, EnrollmentInput{StudentID: student.StudentID, PlanID: uuid.New()}); !errors.Is(err, helper.ErrNotFound) {
		t.Fatalf("missing plan err = %v, want NotFound", err)
	}
}

func TestDeactivateEnrollmentTwice(t *testing.T) {
	db := newTestDB(t)
	student, plan := seedStudentAndPlan(t, db)
	svc := NewEnrollmentService(db)
	ctx := context.Background()

	enrollment, err := svc.CreateEnrollment(ctx, EnrollmentInput{StudentID: student.StudentID, PlanID: plan.PlanID})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := svc.DeactivateEnrollment(ctx, enrollment.EnrollmentID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := svc.DeactivateEnrollment(ctx, enrollment.EnrollmentID); !errors.Is(err, helper.ErrNotFound) {
		t.Fatalf("second deactivate err = %v, want NotFound", err)
	}
}
