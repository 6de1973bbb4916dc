package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeCandidate = "candidate"
	TypeHR        = "hr"
)

// User mirrors an identity-provider account so HR listings can join names
// and emails. Password is only set by the local provider.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string         `gorm:"column:password" json:"-"`
	FullName  string         `gorm:"column:full_name" json:"full_name"`
	UserType  string         `gorm:"not null;column:user_type" json:"user_type"`
	Company   *string        `gorm:"column:company" json:"company,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "profiles" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.UserType == "" {
		u.UserType = TypeCandidate
	}
	return nil
}

func ValidType(t string) bool {
	return t == TypeCandidate || t == TypeHR
}
