package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/hirebridge-backend/internal/data/repos"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

type Repos struct {
	User             repos.UserRepo
	UserToken        repos.UserTokenRepo
	CandidateProfile repos.CandidateProfileRepo
	Job              repos.JobRepo
	Application      repos.ApplicationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		UserToken:        repos.NewUserTokenRepo(db, log),
		CandidateProfile: repos.NewCandidateProfileRepo(db, log),
		Job:              repos.NewJobRepo(db, log),
		Application:      repos.NewApplicationRepo(db, log),
	}
}
