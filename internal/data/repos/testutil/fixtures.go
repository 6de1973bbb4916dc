package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/hirebridge-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, userType string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		FullName: "Test User",
		UserType: userType,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedJob(tb testing.TB, ctx context.Context, tx *gorm.DB, hrUserID uuid.UUID, active bool) *types.Job {
	tb.Helper()
	j := &types.Job{
		ID:          uuid.New(),
		Position:    "Backend Engineer",
		Description: "Build services",
		Company:     "Acme",
		Location:    "Remote",
		HRUserID:    hrUserID,
		IsActive:    active,
	}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, fullName, resumeURL string) *types.CandidateProfile {
	tb.Helper()
	p := &types.CandidateProfile{
		UserID:          userID,
		FullName:        fullName,
		Skills:          "go, sql",
		ExperienceYears: 4,
	}
	if resumeURL != "" {
		p.ResumeURL = &resumeURL
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}
