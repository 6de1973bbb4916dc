package jobs

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

type JobRepo interface {
	Create(dbc dbctx.Context, job *types.Job) error
	// GetByID returns nil, nil for an unknown id.
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Job, error)
	ListByHRUser(dbc dbctx.Context, hrUserID uuid.UUID) ([]*types.Job, error)
	ListActive(dbc dbctx.Context) ([]*types.Job, error)
	SetActive(dbc dbctx.Context, id uuid.UUID, active bool) error
}

type jobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return &jobRepo{db: db, log: baseLog.With("repo", "JobRepo")}
}

func (r *jobRepo) Create(dbc dbctx.Context, job *types.Job) error {
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	return dbc.DB(r.db).Create(job).Error
}

func (r *jobRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Job, error) {
	var job types.Job
	err := dbc.DB(r.db).Where("id = ?", id).Take(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepo) ListByHRUser(dbc dbctx.Context, hrUserID uuid.UUID) ([]*types.Job, error) {
	var results []*types.Job
	if err := dbc.DB(r.db).
		Where("hr_user_id = ?", hrUserID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *jobRepo) ListActive(dbc dbctx.Context) ([]*types.Job, error) {
	var results []*types.Job
	if err := dbc.DB(r.db).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *jobRepo) SetActive(dbc dbctx.Context, id uuid.UUID, active bool) error {
	res := dbc.DB(r.db).
		Model(&types.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
