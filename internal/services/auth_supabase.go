package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/hirebridge-backend/internal/data/repos"
	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/platform/supabase"
)

// SupabaseAuthClient is the subset of *supabase.Client used for identity.
type SupabaseAuthClient interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*supabase.AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*supabase.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*supabase.AuthResponse, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
	VerifyToken(tokenString string) (*supabase.User, error)
}

type supabaseAuthService struct {
	log       *logger.Logger
	client    SupabaseAuthClient
	userRepo  repos.UserRepo
	accessTTL time.Duration
}

// NewSupabaseAuthService delegates identity to GoTrue and mirrors each user
// into the profiles table.
func NewSupabaseAuthService(log *logger.Logger, client SupabaseAuthClient, userRepo repos.UserRepo, accessTTL time.Duration) AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &supabaseAuthService{
		log:       log.With("service", "AuthService", "provider", "supabase"),
		client:    client,
		userRepo:  userRepo,
		accessTTL: accessTTL,
	}
}

func (ss *supabaseAuthService) GetAccessTTL() time.Duration { return ss.accessTTL }

// mapSupabaseErr translates GoTrue failures into the service taxonomy.
func mapSupabaseErr(op string, err error, onClientErr error) error {
	var se *supabase.Error
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrUnauthenticated, se.Message)
		case se.StatusCode >= 400 && se.StatusCode < 500:
			return fmt.Errorf("%w: %s", onClientErr, se.Message)
		}
	}
	return backendErr(op, err)
}

func mirrorUser(u *supabase.User) (*types.User, error) {
	id, err := uuid.Parse(strings.TrimSpace(u.ID))
	if err != nil {
		return nil, fmt.Errorf("identity provider returned invalid user id %q", u.ID)
	}
	out := &types.User{
		ID:       id,
		Email:    strings.ToLower(strings.TrimSpace(u.Email)),
		FullName: u.MetadataString("full_name"),
		UserType: strings.ToLower(u.MetadataString("user_type")),
	}
	if !types.ValidUserType(out.UserType) {
		out.UserType = types.UserTypeCandidate
	}
	if c := u.MetadataString("company"); c != "" {
		out.Company = &c
	}
	return out, nil
}

func (ss *supabaseAuthService) mirror(ctx context.Context, u *supabase.User) (*types.User, error) {
	mirrored, err := mirrorUser(u)
	if err != nil {
		return nil, backendErr("mirror user", err)
	}
	if err := ss.userRepo.Upsert(dbctx.Context{Ctx: ctx}, mirrored); err != nil {
		return nil, backendErr("mirror user", err)
	}
	return mirrored, nil
}

func (ss *supabaseAuthService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	if err := normalizeRegistration(&in); err != nil {
		return nil, err
	}
	meta := map[string]any{"full_name": in.FullName, "user_type": in.UserType}
	if in.Company != "" {
		meta["company"] = in.Company
	}
	resp, err := ss.client.SignUp(ctx, in.Email, in.Password, meta)
	if err != nil {
		return nil, mapSupabaseErr("sign up", err, ErrInvalidRequest)
	}
	u, err := ss.mirror(ctx, &resp.User)
	if err != nil {
		return nil, err
	}
	ss.log.Info("user registered", "user_id", u.ID, "user_type", u.UserType)
	return u, nil
}

func (ss *supabaseAuthService) Login(ctx context.Context, email, password string) (*AuthTokens, *types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: email and password", ErrMissingParameter)
	}
	resp, err := ss.client.SignIn(ctx, email, password)
	if err != nil {
		var se *supabase.Error
		if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, backendErr("sign in", err)
	}
	u, err := ss.mirror(ctx, &resp.User)
	if err != nil {
		return nil, nil, err
	}
	return tokensFromSupabase(resp, ss.accessTTL), u, nil
}

func tokensFromSupabase(resp *supabase.AuthResponse, fallback time.Duration) *AuthTokens {
	expiresIn := resp.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = int(fallback.Seconds())
	}
	return &AuthTokens{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    expiresIn,
	}
}

func (ss *supabaseAuthService) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token", ErrMissingParameter)
	}
	resp, err := ss.client.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, mapSupabaseErr("refresh", err, ErrUnauthenticated)
	}
	return tokensFromSupabase(resp, ss.accessTTL), nil
}

func (ss *supabaseAuthService) Logout(ctx context.Context, s *ctxutil.Session) error {
	if s == nil || s.AccessToken == "" {
		return ErrUnauthenticated
	}
	if err := ss.client.SignOut(ctx, s.AccessToken); err != nil {
		return mapSupabaseErr("sign out", err, ErrUnauthenticated)
	}
	return nil
}

func (ss *supabaseAuthService) SessionFromToken(ctx context.Context, tokenString string) (*ctxutil.Session, error) {
	u, err := ss.client.VerifyToken(tokenString)
	if errors.Is(err, supabase.ErrLocalVerificationDisabled) {
		u, err = ss.client.GetUser(ctx, tokenString)
		if err != nil {
			return nil, mapSupabaseErr("get user", err, ErrUnauthenticated)
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	mirrored, err := mirrorUser(u)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return &ctxutil.Session{
		UserID:      mirrored.ID,
		Email:       mirrored.Email,
		FullName:    mirrored.FullName,
		Role:        mirrored.UserType,
		AccessToken: tokenString,
		Provider:    "supabase",
	}, nil
}
