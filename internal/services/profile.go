package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/hirebridge-backend/internal/data/repos"
	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/observability"
	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
)

const MaxResumeBytes = 10 * 1024 * 1024

var resumeExtByType = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

type ProfileInput struct {
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	ExperienceYears int    `json:"experience_years"`
	Education       string `json:"education"`
	Skills          string `json:"skills"`
}

// ResumeUpload is a candidate's file. Size is the declared length; Data may
// be nil when Size already exceeds the limit.
type ResumeUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

type ProfileService interface {
	// GetProfile returns nil when the candidate has not saved a profile yet.
	GetProfile(ctx context.Context, s *ctxutil.Session) (*types.CandidateProfile, error)
	SaveProfile(ctx context.Context, s *ctxutil.Session, in ProfileInput) (*types.CandidateProfile, error)
	UploadResume(ctx context.Context, s *ctxutil.Session, up ResumeUpload) (*types.CandidateProfile, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.CandidateProfileRepo
	appRepo     repos.ApplicationRepo
	bucket      objectstore.BucketService
	metrics     *observability.Metrics
	now         func() time.Time
}

func NewProfileService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.CandidateProfileRepo,
	appRepo repos.ApplicationRepo,
	bucket objectstore.BucketService,
	metrics *observability.Metrics,
) ProfileService {
	return &profileService{
		db:          db,
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
		appRepo:     appRepo,
		bucket:      bucket,
		metrics:     metrics,
		now:         time.Now,
	}
}

func (ps *profileService) GetProfile(ctx context.Context, s *ctxutil.Session) (*types.CandidateProfile, error) {
	if err := requireCandidate(s); err != nil {
		return nil, err
	}
	p, err := ps.profileRepo.GetByUserID(dbctx.Context{Ctx: ctx}, s.UserID)
	if err != nil {
		return nil, backendErr("load profile", err)
	}
	return p, nil
}

func (ps *profileService) SaveProfile(ctx context.Context, s *ctxutil.Session, in ProfileInput) (*types.CandidateProfile, error) {
	if err := requireCandidate(s); err != nil {
		return nil, err
	}
	if in.ExperienceYears < 0 {
		return nil, fmt.Errorf("%w: experience_years must be >= 0", ErrInvalidRequest)
	}
	dbc := dbctx.Context{Ctx: ctx}
	p := &types.CandidateProfile{
		UserID:          s.UserID,
		FullName:        strings.TrimSpace(in.FullName),
		Phone:           strings.TrimSpace(in.Phone),
		ExperienceYears: in.ExperienceYears,
		Education:       strings.TrimSpace(in.Education),
		Skills:          strings.TrimSpace(in.Skills),
	}
	if err := ps.profileRepo.Upsert(dbc, p); err != nil {
		return nil, backendErr("save profile", err)
	}
	saved, err := ps.profileRepo.GetByUserID(dbc, s.UserID)
	if err != nil {
		return nil, backendErr("reload profile", err)
	}
	return saved, nil
}

// resolveResumeType returns the media type and object extension, or
// ErrUnsupportedType. Generic or missing headers fall back to the filename
// and then to content sniffing.
func resolveResumeType(up ResumeUpload) (string, string, error) {
	ct := ""
	if raw := strings.TrimSpace(up.ContentType); raw != "" {
		if mt, _, err := mime.ParseMediaType(raw); err == nil {
			ct = strings.ToLower(mt)
		}
	}
	if ct == "" || ct == "application/octet-stream" {
		if byExt := objectstore.ContentTypeForKey(up.Filename); resumeExtByType[byExt] != "" {
			ct = byExt
		} else if len(up.Data) > 0 {
			ct, _, _ = mime.ParseMediaType(http.DetectContentType(up.Data))
		}
	}
	ext, ok := resumeExtByType[ct]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedType, ct)
	}
	if fe := strings.ToLower(filepath.Ext(up.Filename)); fe != "" && objectstore.ContentTypeForKey("x"+fe) == ct {
		ext = fe
	}
	return ct, ext, nil
}

func (ps *profileService) UploadResume(ctx context.Context, s *ctxutil.Session, up ResumeUpload) (*types.CandidateProfile, error) {
	p, err := ps.uploadResume(ctx, s, up)
	if err != nil {
		ps.metrics.IncResumeUpload(ErrorCode(err))
		return nil, err
	}
	ps.metrics.IncResumeUpload("ok")
	return p, nil
}

func (ps *profileService) uploadResume(ctx context.Context, s *ctxutil.Session, up ResumeUpload) (*types.CandidateProfile, error) {
	if err := requireCandidate(s); err != nil {
		return nil, err
	}
	contentType, ext, err := resolveResumeType(up)
	if err != nil {
		return nil, err
	}
	if up.Size > MaxResumeBytes || len(up.Data) > MaxResumeBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, MaxResumeBytes)
	}
	if len(up.Data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidRequest)
	}

	dbc := dbctx.Context{Ctx: ctx}
	current, err := ps.profileRepo.GetByUserID(dbc, s.UserID)
	if err != nil {
		return nil, backendErr("load profile", err)
	}

	key := fmt.Sprintf("%s/%d%s", s.UserID, ps.now().UnixMilli(), ext)
	if err := ps.bucket.UploadFile(dbc, objectstore.CategoryResume, key, bytes.NewReader(up.Data)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageWriteFailed, err)
	}
	publicURL := ps.bucket.GetPublicURL(objectstore.CategoryResume, key)

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := ps.profileRepo.SetResume(inner, s.UserID, publicURL, key); err != nil {
			return err
		}
		n, err := ps.appRepo.UpdateResumeURLByCandidate(inner, s.UserID, publicURL)
		if err != nil {
			return err
		}
		ps.log.Debug("application resume references updated", "candidate_id", s.UserID, "rows", n)
		return nil
	})
	if err != nil {
		return nil, backendErr("record resume", err)
	}

	ps.deleteOldResume(ctx, s, current, key)
	ps.log.Info("resume uploaded", "candidate_id", s.UserID, "content_type", contentType, "bytes", len(up.Data))

	saved, err := ps.profileRepo.GetByUserID(dbc, s.UserID)
	if err != nil {
		return nil, backendErr("reload profile", err)
	}
	return saved, nil
}

// oldResumeKey prefers the stored object key and falls back to the last
// segment of the public URL under the candidate's prefix.
func oldResumeKey(s *ctxutil.Session, p *types.CandidateProfile) string {
	if p == nil {
		return ""
	}
	if p.ResumeKey != nil && strings.TrimSpace(*p.ResumeKey) != "" {
		return strings.TrimSpace(*p.ResumeKey)
	}
	if !p.HasResume() {
		return ""
	}
	seg := objectstore.LastSegment(*p.ResumeURL)
	if seg == "" {
		return ""
	}
	return s.UserID.String() + "/" + seg
}

func (ps *profileService) deleteOldResume(ctx context.Context, s *ctxutil.Session, previous *types.CandidateProfile, newKey string) {
	oldKey := oldResumeKey(s, previous)
	if oldKey == "" || oldKey == newKey {
		return
	}
	if err := ps.bucket.DeleteFile(dbctx.Context{Ctx: ctx}, objectstore.CategoryResume, oldKey); err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			return
		}
		ps.log.Warn("old resume delete failed", "key", oldKey, "error", err)
	}
}
