package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dojoku_backend/internals/constants"
)

/* ==============================================
   MODEL: users (staff, students, pending logins)
============================================== */

type UserModel struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`

	UserUsername string `gorm:"column:user_username;type:varchar(50);not null;uniqueIndex" json:"user_username"`
	UserFullName string `gorm:"column:user_full_name;type:varchar(120);not null" json:"user_full_name"`
	UserRole     string `gorm:"column:user_role;type:varchar(20);not null;default:'pending';index" json:"user_role"`

	UserPasswordHash string `gorm:"column:user_password_hash;type:varchar(100)" json:"-"`
	UserIsActive     bool   `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`

	UserCreatedAt time.Time      `gorm:"column:user_created_at;not null" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:user_updated_at;not null" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"-"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	now := time.Now()
	if m.UserCreatedAt.IsZero() {
		m.UserCreatedAt = now
	}
	m.UserUpdatedAt = now
	if m.UserRole == "" {
		m.UserRole = constants.RolePending
	}
	return nil
}

func (m *UserModel) BeforeUpdate(tx *gorm.DB) error {
	m.UserUpdatedAt = time.Now()
	return nil
}

func (m *UserModel) IsStaff() bool {
	return constants.IsStaffRole(m.UserRole)
}

func (m *UserModel) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.UserPasswordHash = string(hash)
	return nil
}

func (m *UserModel) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(m.UserPasswordHash), []byte(plain)) == nil
}
