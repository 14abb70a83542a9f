package database

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	eventModel "dojoku_backend/internals/features/academy/events/model"
	studentModel "dojoku_backend/internals/features/academy/students/model"
	userModel "dojoku_backend/internals/features/academy/users/model"
	billModel "dojoku_backend/internals/features/finance/billings/model"
	paymentModel "dojoku_backend/internals/features/finance/payments/model"
	txModel "dojoku_backend/internals/features/finance/transactions/model"
)

var DB *gorm.DB

func ConnectDB() {
	slog.Info("connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=dojoku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		slog.Error("DB connection failed", "err", err)
		os.Exit(1)
	}
	DB = db
	slog.Info("DB connected")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		slog.Warn("pool tune failed", "err", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates/updates the schema. Shared with the CLIs and the tests.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&studentModel.StudentModel{},
		&studentModel.PlanModel{},
		&studentModel.EnrollmentModel{},
		&eventModel.EventModel{},
		&eventModel.EventRegistrationModel{},
		&billModel.MonthlyBillModel{},
		&txModel.FinancialTransactionModel{},
		&paymentModel.PaymentGatewayEventModel{},
	); err != nil {
		return err
	}
	return EnsureIndexes(db)
}

// EnsureIndexes adds the partial unique indexes GORM tags cannot express.
// Partial indexes are a Postgres feature; the service layer re-checks the
// same rules, so other dialects (the sqlite test harness) stay correct.
func EnsureIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_enrollment_active_per_student
		   ON enrollments (enrollment_student_id)
		   WHERE enrollment_is_active AND enrollment_deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_bill_enrollment_due
		   ON monthly_bills (monthly_bill_enrollment_id, monthly_bill_due_date)
		   WHERE monthly_bill_status <> 'cancelled' AND monthly_bill_enrollment_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_registration_student_event
		   ON event_registrations (registration_student_id, registration_event_id)
		   WHERE registration_status <> 'cancelled'`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
