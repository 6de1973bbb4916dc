package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrLocalVerificationDisabled = errors.New("supabase jwt secret not configured")

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u *User) MetadataString(key string) string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	if s, ok := u.UserMetadata[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// SignUp registers email/password with metadata stored as user_metadata.
// When email confirmation is on, GoTrue returns the bare user and no tokens.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*AuthResponse, error) {
	body := map[string]any{"email": email, "password": password}
	if len(metadata) > 0 {
		body["data"] = metadata
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/signup", body)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, c.anonKey, "")
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("decode signup: %w", err)
	}
	if out.User.ID == "" {
		var u User
		if err := resp.JSON(&u); err == nil && u.ID != "" {
			out.User = u
		}
	}
	return &out, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.token(ctx, "password", map[string]any{"email": email, "password": password})
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	return c.token(ctx, "refresh_token", map[string]any{"refresh_token": refreshToken})
}

func (c *Client) token(ctx context.Context, grant string, body map[string]any) (*AuthResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type="+grant, body)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, c.anonKey, "")
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return &out, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, c.anonKey, accessToken)
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	return resp.Error()
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, c.anonKey, accessToken)
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}
	var u User
	if err := resp.JSON(&u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

// VerifyToken validates an access token locally with the project's JWT secret.
func (c *Client) VerifyToken(tokenString string) (*User, error) {
	if c.jwtSecret == "" {
		return nil, ErrLocalVerificationDisabled
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(c.jwtSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	u := &User{ID: sub}
	u.Email, _ = claims["email"].(string)
	u.UserMetadata, _ = claims["user_metadata"].(map[string]any)
	return u, nil
}
