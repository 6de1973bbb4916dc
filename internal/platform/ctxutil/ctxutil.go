package ctxutil

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const (
	RoleCandidate = "candidate"
	RoleHR        = "hr"
)

type traceDataKey struct{}
type sessionKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

// Session is the authenticated caller, resolved once by the auth middleware
// and handed to services explicitly.
type Session struct {
	UserID      uuid.UUID
	Email       string
	FullName    string
	Role        string
	AccessToken string
	Provider    string
}

func (s *Session) IsHR() bool {
	return s != nil && strings.EqualFold(s.Role, RoleHR)
}

func (s *Session) IsCandidate() bool {
	return s != nil && strings.EqualFold(s.Role, RoleCandidate)
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(Default(ctx), traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := Default(ctx).Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(Default(ctx), sessionKey{}, s)
}

func GetSession(ctx context.Context) *Session {
	if s, ok := Default(ctx).Value(sessionKey{}).(*Session); ok {
		return s
	}
	return nil
}
