package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

type fakeAuth struct {
	sessions map[string]*ctxutil.Session
	err      error
}

func (f *fakeAuth) Register(context.Context, services.RegisterInput) (*types.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeAuth) Login(context.Context, string, string) (*services.AuthTokens, *types.User, error) {
	return nil, nil, errors.New("not implemented")
}
func (f *fakeAuth) Refresh(context.Context, string) (*services.AuthTokens, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeAuth) Logout(context.Context, *ctxutil.Session) error { return nil }
func (f *fakeAuth) GetAccessTTL() time.Duration                    { return time.Hour }
func (f *fakeAuth) SessionFromToken(_ context.Context, token string) (*ctxutil.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, services.ErrUnauthenticated
}

func protectedRouter(auth services.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	am := NewAuthMiddleware(logger.Nop(), auth)
	chain := append([]gin.HandlerFunc{am.RequireAuth()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		s := ctxutil.GetSession(c.Request.Context())
		c.String(http.StatusOK, s.UserID.String())
	})
	r.GET("/p", chain...)
	return r
}

func TestRequireAuth(t *testing.T) {
	uid := uuid.New()
	auth := &fakeAuth{sessions: map[string]*ctxutil.Session{
		"good": {UserID: uid, Role: types.UserTypeCandidate},
	}}
	r := protectedRouter(auth)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Fatalf("%s: want=%d got=%d", tc.name, tc.status, w.Code)
		}
		if tc.status == http.StatusOK && w.Body.String() != uid.String() {
			t.Fatalf("%s: session user: want=%s got=%s", tc.name, uid, w.Body.String())
		}
	}
}

func TestRequireAuthBackendFailure(t *testing.T) {
	r := protectedRouter(&fakeAuth{err: errors.New("db down")})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer x")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: want=%d got=%d", http.StatusInternalServerError, w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	auth := &fakeAuth{sessions: map[string]*ctxutil.Session{
		"cand": {UserID: uuid.New(), Role: types.UserTypeCandidate},
		"hr":   {UserID: uuid.New(), Role: types.UserTypeHR},
	}}
	r := protectedRouter(auth, RequireRole(types.UserTypeHR))

	for token, want := range map[string]int{"cand": http.StatusForbidden, "hr": http.StatusOK} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("%s: want=%d got=%d", token, want, w.Code)
		}
	}
}
