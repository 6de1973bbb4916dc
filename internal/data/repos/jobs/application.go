package jobs

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

type ApplicationRepo interface {
	// Create returns an error wrapping ErrDuplicate when the candidate already
	// applied to the job.
	Create(dbc dbctx.Context, app *types.Application) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Application, error)
	GetByCandidateAndJob(dbc dbctx.Context, candidateID, jobID uuid.UUID) (*types.Application, error)
	ListJobIDsByCandidate(dbc dbctx.Context, candidateID uuid.UUID) ([]uuid.UUID, error)
	ListByJob(dbc dbctx.Context, jobID uuid.UUID) ([]*types.Application, error)
	ListUnscored(dbc dbctx.Context, limit int) ([]*types.Application, error)
	// CountByReplicaPath counts applications pointing at a replica object.
	CountByReplicaPath(dbc dbctx.Context, replicaPath string) (int64, error)
	UpdateResumeURLByCandidate(dbc dbctx.Context, candidateID uuid.UUID, resumeURL string) (int64, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error
	SetMatchPercentage(dbc dbctx.Context, id uuid.UUID, pct float64) error
}

type applicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	return &applicationRepo{db: db, log: baseLog.With("repo", "ApplicationRepo")}
}

func (r *applicationRepo) Create(dbc dbctx.Context, app *types.Application) error {
	now := time.Now().UTC()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	app.CreatedAt = now
	app.UpdatedAt = now
	if err := dbc.DB(r.db).Create(app).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		}
		return err
	}
	return nil
}

func (r *applicationRepo) take(dbc dbctx.Context, query string, args ...interface{}) (*types.Application, error) {
	var app types.Application
	err := dbc.DB(r.db).Where(query, args...).Take(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Application, error) {
	return r.take(dbc, "id = ?", id)
}

func (r *applicationRepo) GetByCandidateAndJob(dbc dbctx.Context, candidateID, jobID uuid.UUID) (*types.Application, error) {
	return r.take(dbc, "candidate_id = ? AND job_id = ?", candidateID, jobID)
}

func (r *applicationRepo) ListJobIDsByCandidate(dbc dbctx.Context, candidateID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.Application{}).
		Where("candidate_id = ?", candidateID).
		Order("applied_at DESC").
		Pluck("job_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *applicationRepo) ListByJob(dbc dbctx.Context, jobID uuid.UUID) ([]*types.Application, error) {
	var results []*types.Application
	if err := dbc.DB(r.db).
		Where("job_id = ?", jobID).
		Order("applied_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *applicationRepo) ListUnscored(dbc dbctx.Context, limit int) ([]*types.Application, error) {
	if limit <= 0 {
		limit = 100
	}
	var results []*types.Application
	if err := dbc.DB(r.db).
		Where("match_percentage IS NULL").
		Order("applied_at ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *applicationRepo) CountByReplicaPath(dbc dbctx.Context, replicaPath string) (int64, error) {
	var n int64
	err := dbc.DB(r.db).
		Model(&types.Application{}).
		Where("replica_path = ?", replicaPath).
		Count(&n).Error
	return n, err
}

func (r *applicationRepo) UpdateResumeURLByCandidate(dbc dbctx.Context, candidateID uuid.UUID, resumeURL string) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.Application{}).
		Where("candidate_id = ?", candidateID).
		Updates(map[string]interface{}{"resume_url": resumeURL, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *applicationRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error {
	return r.updateOne(dbc, id, map[string]interface{}{"status": status})
}

func (r *applicationRepo) SetMatchPercentage(dbc dbctx.Context, id uuid.UUID, pct float64) error {
	return r.updateOne(dbc, id, map[string]interface{}{"match_percentage": pct})
}

func (r *applicationRepo) updateOne(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	res := dbc.DB(r.db).Model(&types.Application{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
