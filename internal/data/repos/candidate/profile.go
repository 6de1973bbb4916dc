package candidate

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

type ProfileRepo interface {
	// GetByUserID returns nil, nil when the candidate has not saved a profile.
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.CandidateProfile, error)
	// Upsert writes the self-edited fields. Resume columns are left alone.
	Upsert(dbc dbctx.Context, p *types.CandidateProfile) error
	// SetResume records a new resume, creating the row if needed.
	SetResume(dbc dbctx.Context, userID uuid.UUID, resumeURL, resumeKey string) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "CandidateProfileRepo")}
}

func (r *profileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.CandidateProfile, error) {
	var p types.CandidateProfile
	err := dbc.DB(r.db).Where("user_id = ?", userID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Upsert(dbc dbctx.Context, p *types.CandidateProfile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return dbc.DB(r.db).
		Omit("resume_url", "resume_key").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"full_name", "phone", "experience_years", "education", "skills", "updated_at",
			}),
		}).
		Create(p).Error
}

func (r *profileRepo) SetResume(dbc dbctx.Context, userID uuid.UUID, resumeURL, resumeKey string) error {
	now := time.Now().UTC()
	p := &types.CandidateProfile{
		UserID:    userID,
		ResumeURL: &resumeURL,
		ResumeKey: &resumeKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"resume_url", "resume_key", "updated_at"}),
		}).
		Create(p).Error
}
