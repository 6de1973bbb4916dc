package domain

import (
	"github.com/yungbote/hirebridge-backend/internal/domain/auth"
	"github.com/yungbote/hirebridge-backend/internal/domain/candidate"
	"github.com/yungbote/hirebridge-backend/internal/domain/jobs"
	"github.com/yungbote/hirebridge-backend/internal/domain/user"
)

type (
	User             = user.User
	UserToken        = auth.UserToken
	CandidateProfile = candidate.Profile
	Job              = jobs.Job
	Application      = jobs.Application
)

const (
	UserTypeCandidate = user.TypeCandidate
	UserTypeHR        = user.TypeHR

	ApplicationStatusApplied     = jobs.StatusApplied
	ApplicationStatusReviewing   = jobs.StatusReviewing
	ApplicationStatusShortlisted = jobs.StatusShortlisted
	ApplicationStatusRejected    = jobs.StatusRejected
	ApplicationStatusHired       = jobs.StatusHired
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserToken{},
		&CandidateProfile{},
		&Job{},
		&Application{},
	}
}

func ValidApplicationStatus(s string) bool { return jobs.ValidStatus(s) }

func ValidUserType(t string) bool { return user.ValidType(t) }
