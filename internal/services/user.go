package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/hirebridge-backend/internal/data/repos"
	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context, s *ctxutil.Session) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{log: log.With("service", "UserService"), userRepo: userRepo}
}

// GetMe returns the mirrored user, or one built from the session when the
// mirror row is missing.
func (us *userService) GetMe(ctx context.Context, s *ctxutil.Session) (*types.User, error) {
	if s == nil || s.UserID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	found, err := us.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{s.UserID})
	if err != nil {
		return nil, backendErr("load user", err)
	}
	if len(found) > 0 && found[0] != nil {
		return found[0], nil
	}
	us.log.Debug("user mirror missing, answering from session", "user_id", s.UserID)
	return &types.User{ID: s.UserID, Email: s.Email, FullName: s.FullName, UserType: s.Role}, nil
}
