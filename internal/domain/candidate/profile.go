package candidate

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is the candidate's self-maintained profile, one row per user.
type Profile struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	FullName        string    `gorm:"column:full_name" json:"full_name"`
	Phone           string    `gorm:"column:phone" json:"phone"`
	ExperienceYears int       `gorm:"not null;column:experience_years" json:"experience_years"`
	Education       string    `gorm:"type:text;column:education" json:"education"`
	Skills          string    `gorm:"type:text;column:skills" json:"skills"`
	ResumeURL       *string   `gorm:"column:resume_url" json:"resume_url"`
	ResumeKey       *string   `gorm:"column:resume_key" json:"-"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "candidate_profiles" }

func (p *Profile) HasResume() bool {
	return p != nil && p.ResumeURL != nil && strings.TrimSpace(*p.ResumeURL) != ""
}
