package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	eventModel "dojoku_backend/internals/features/academy/events/model"
	helper "dojoku_backend/internals/helpers"
)

type RegistrationService struct {
	DB *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{DB: db}
}

// Register creates a pending registration for a student on an event.
// Capacity and the (student, event) uniqueness rule are checked under a
// lock on the event row; the partial unique index backs the latter.
func (s *RegistrationService) Register(ctx context.Context, eventID, studentID uuid.UUID) (*eventModel.EventRegistrationModel, error) {
	var reg eventModel.EventRegistrationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var event eventModel.EventModel
		if err := q.Take(&event, "event_id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.ErrNotFound
			}
			return err
		}

		var dup int64
		if err := tx.Model(&eventModel.EventRegistrationModel{}).
			Where("registration_event_id = ? AND registration_student_id = ? AND registration_status <> ?",
				eventID, studentID, eventModel.RegistrationStatusCancelled).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return helper.ErrConflict
		}

		if event.EventCapacity > 0 {
			var taken int64
			if err := tx.Model(&eventModel.EventRegistrationModel{}).
				Where("registration_event_id = ? AND registration_status <> ?",
					eventID, eventModel.RegistrationStatusCancelled).
				Count(&taken).Error; err != nil {
				return err
			}
			if taken >= int64(event.EventCapacity) {
				return helper.ErrCapacityExceeded
			}
		}

		reg = eventModel.EventRegistrationModel{
			RegistrationEventID:   eventID,
			RegistrationStudentID: studentID,
			RegistrationStatus:    eventModel.RegistrationStatusPending,
		}
		return tx.Create(&reg).Error
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
