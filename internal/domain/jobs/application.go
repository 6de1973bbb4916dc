package jobs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusApplied     = "applied"
	StatusReviewing   = "reviewing"
	StatusShortlisted = "shortlisted"
	StatusRejected    = "rejected"
	StatusHired       = "hired"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusApplied, StatusReviewing, StatusShortlisted, StatusRejected, StatusHired:
		return true
	default:
		return false
	}
}

// Application is one candidate's application to one job. Skills and
// experience are captured at submission; ResumeURL follows the candidate's
// latest upload while ReplicaPath points at the frozen per-job copy.
type Application struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID           uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_job_applications_candidate_job,priority:2;column:job_id" json:"job_id"`
	CandidateID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_applications_candidate_job,priority:1;column:candidate_id" json:"candidate_id"`
	Status          string    `gorm:"not null;index;column:status" json:"status"`
	MatchPercentage *float64  `gorm:"column:match_percentage" json:"match_percentage"`
	Skills          string    `gorm:"type:text;column:skills" json:"skills"`
	ExperienceYears int       `gorm:"not null;column:experience_years" json:"experience_years"`
	ResumeURL       string    `gorm:"column:resume_url" json:"resume_url"`
	ReplicaPath     string    `gorm:"column:replica_path" json:"replica_path"`
	CoverLetter     *string   `gorm:"type:text;column:cover_letter" json:"cover_letter,omitempty"`
	AppliedAt       time.Time `gorm:"not null;index;column:applied_at" json:"applied_at"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Application) TableName() string { return "job_applications" }

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
