package jobs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job is a posting owned by an HR user. Postings are deactivated, never
// deleted; LastDateToApply is advisory.
type Job struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Position        string     `gorm:"not null;column:position" json:"position"`
	Description     string     `gorm:"type:text;not null;column:description" json:"description"`
	Company         string     `gorm:"not null;column:company" json:"company"`
	Location        string     `gorm:"not null;column:location" json:"location"`
	Salary          string     `gorm:"column:salary" json:"salary"`
	LastDateToApply *time.Time `gorm:"type:date;column:last_date_to_apply" json:"last_date_to_apply"`
	Requirements    string     `gorm:"type:text;column:requirements" json:"requirements"`
	HRUserID        uuid.UUID  `gorm:"type:uuid;not null;index;column:hr_user_id" json:"hr_user_id"`
	IsActive        bool       `gorm:"not null;index;column:is_active" json:"is_active"`
	CreatedAt       time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
