package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/hirebridge-backend/internal/data/repos"
	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

const minPasswordLength = 8

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	UserType string `json:"user_type"`
	Company  string `json:"company"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthService fronts an identity provider. Every implementation resolves
// bearer tokens into an explicit session.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*AuthTokens, *types.User, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, s *ctxutil.Session) error
	SessionFromToken(ctx context.Context, tokenString string) (*ctxutil.Session, error)
	GetAccessTTL() time.Duration
}

// normalizeRegistration trims and validates registration input in place.
func normalizeRegistration(in *RegisterInput) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.Company = strings.TrimSpace(in.Company)
	in.UserType = strings.ToLower(strings.TrimSpace(in.UserType))
	if in.Email == "" {
		return fmt.Errorf("%w: email", ErrMissingParameter)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: email is not valid", ErrInvalidRequest)
	}
	if in.Password == "" {
		return fmt.Errorf("%w: password", ErrMissingParameter)
	}
	if len(in.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRequest, minPasswordLength)
	}
	if in.FullName == "" {
		return fmt.Errorf("%w: full_name", ErrMissingParameter)
	}
	if in.UserType == "" {
		in.UserType = types.UserTypeCandidate
	}
	if !types.ValidUserType(in.UserType) {
		return fmt.Errorf("%w: user_type must be hr or candidate", ErrInvalidRequest)
	}
	return nil
}

type localAuthService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	bcryptCost    int
	now           func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &localAuthService{
		db:            db,
		log:           log.With("service", "AuthService", "provider", "local"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  []byte(jwtSecretKey),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		bcryptCost:    bcrypt.DefaultCost,
		now:           time.Now,
	}
}

func (as *localAuthService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *localAuthService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	if err := normalizeRegistration(&in); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	exists, err := as.userRepo.EmailExists(dbc, in.Email)
	if err != nil {
		return nil, backendErr("check email", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", ErrInvalidRequest)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), as.bcryptCost)
	if err != nil {
		return nil, backendErr("hash password", err)
	}
	u := &types.User{
		Email:    in.Email,
		Password: string(hash),
		FullName: in.FullName,
		UserType: in.UserType,
	}
	if in.Company != "" {
		u.Company = &in.Company
	}
	if _, err := as.userRepo.Create(dbc, []*types.User{u}); err != nil {
		return nil, backendErr("create user", err)
	}
	as.log.Info("user registered", "user_id", u.ID, "user_type", u.UserType)
	return u, nil
}

func (as *localAuthService) Login(ctx context.Context, email, password string) (*AuthTokens, *types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: email and password", ErrMissingParameter)
	}
	users, err := as.userRepo.GetByEmails(dbctx.Context{Ctx: ctx}, []string{email})
	if err != nil {
		return nil, nil, backendErr("load user", err)
	}
	if len(users) == 0 || users[0].Password == "" {
		return nil, nil, ErrInvalidCredentials
	}
	u := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	var tokens *AuthTokens
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := as.issueTokens(dbctx.Context{Ctx: ctx, Tx: tx}, u)
		if err != nil {
			return err
		}
		tokens = t
		return nil
	})
	if err != nil {
		return nil, nil, backendErr("issue tokens", err)
	}
	return tokens, u, nil
}

func (as *localAuthService) issueTokens(dbc dbctx.Context, u *types.User) (*AuthTokens, error) {
	now := as.now()
	claims := jwt.MapClaims{
		"sub":   u.ID.String(),
		"email": u.Email,
		"name":  u.FullName,
		"role":  u.UserType,
		"iat":   now.Unix(),
		"exp":   now.Add(as.accessTTL).Unix(),
		"jti":   uuid.NewString(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh := uuid.NewString()
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{{
		UserID:       u.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(as.refreshTTL),
	}}); err != nil {
		return nil, fmt.Errorf("store user token: %w", err)
	}
	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(as.accessTTL.Seconds()),
	}, nil
}

func (as *localAuthService) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token", ErrMissingParameter)
	}
	found, err := as.userTokenRepo.GetByRefreshTokens(dbctx.Context{Ctx: ctx}, []string{refreshToken})
	if err != nil {
		return nil, backendErr("load refresh token", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: unknown refresh token", ErrUnauthenticated)
	}
	existing := found[0]
	if existing.Expired(as.now()) {
		if err := as.userTokenRepo.FullDeleteByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{existing.ID}); err != nil {
			as.log.Warn("expired token cleanup failed", "error", err)
		}
		return nil, fmt.Errorf("%w: refresh token expired", ErrUnauthenticated)
	}

	var tokens *AuthTokens
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		users, err := as.userRepo.GetByIDs(dbc, []uuid.UUID{existing.UserID})
		if err != nil {
			return backendErr("load user", err)
		}
		if len(users) == 0 {
			return fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
		}
		t, err := as.issueTokens(dbc, users[0])
		if err != nil {
			return backendErr("issue tokens", err)
		}
		if err := as.userTokenRepo.FullDeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
			return backendErr("delete old token", err)
		}
		tokens = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (as *localAuthService) Logout(ctx context.Context, s *ctxutil.Session) error {
	if s == nil || s.AccessToken == "" {
		return ErrUnauthenticated
	}
	dbc := dbctx.Context{Ctx: ctx}
	found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{s.AccessToken})
	if err != nil {
		return backendErr("load session", err)
	}
	ids := make([]uuid.UUID, 0, len(found))
	for _, t := range found {
		ids = append(ids, t.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := as.userTokenRepo.FullDeleteByIDs(dbc, ids); err != nil {
		return backendErr("delete session", err)
	}
	return nil
}

func (as *localAuthService) SessionFromToken(ctx context.Context, tokenString string) (*ctxutil.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return as.jwtSecretKey, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(as.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrUnauthenticated)
	}
	sub, _ := claims.GetSubject()
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", ErrUnauthenticated)
	}

	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.Context{Ctx: ctx}, []string{tokenString})
	if err != nil {
		return nil, backendErr("load session", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: session revoked", ErrUnauthenticated)
	}

	s := &ctxutil.Session{
		UserID:      userID,
		AccessToken: tokenString,
		Provider:    "local",
	}
	s.Email, _ = claims["email"].(string)
	s.FullName, _ = claims["name"].(string)
	s.Role, _ = claims["role"].(string)
	return s, nil
}
