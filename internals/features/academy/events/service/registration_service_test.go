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
	eventModel "dojoku_backend/internals/features/academy/events/model"
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

func seedStudent(t *testing.T, db *gorm.DB, name string) studentModel.StudentModel {
	t.Helper()
	s := studentModel.StudentModel{StudentFullName: name}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	return s
}

func seedEvent(t *testing.T, db *gorm.DB, capacity int) eventModel.EventModel {
	t.Helper()
	e := eventModel.EventModel{EventName: "Summer Camp", EventFeeCents: 5000, EventCapacity: capacity}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func TestRegisterCreatesPendingRegistration(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db, 0)
	student := seedStudent(t, db, "Fabio Reis")

	reg, err := NewRegistrationService(db).Register(context.Background(), event.EventID, student.StudentID)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.RegistrationStatus != eventModel.RegistrationStatusPending {
		t.Fatalf("status = %s, want pending", reg.RegistrationStatus)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db, 0)
	student := seedStudent(t, db, "Fabio Reis")
	svc := NewRegistrationService(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, event.EventID, student.StudentID); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, event.EventID, student.StudentID); !errors.Is(err, helper.ErrConflict) {
		t.Fatalf("duplicate err = %v, want Conflict", err)
	}
}

func TestRegisterEnforcesCapacity(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db, 2)
	svc := NewRegistrationService(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		s := seedStudent(t, db, "Student")
		if _, err := svc.Register(ctx, event.EventID, s.StudentID); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}

	late := seedStudent(t, db, "Late Student")
	_, err := svc.Register(ctx, event.EventID, late.StudentID)
	if !errors.Is(err, helper.ErrCapacityExceeded) {
		t.Fatalf("err = %v, want CapacityExceeded", err)
	}
}

func TestRegisterUnknownEvent(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "Fabio Reis")

	_, err := NewRegistrationService(db).Register(context.Background(), uuid.New(), student.StudentID)
	if !errors.Is(err, helper.ErrNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}
