package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestSessionRoundTrip(t *testing.T) {
	if got := GetSession(context.Background()); got != nil {
		t.Fatalf("empty ctx: want=nil got=%v", got)
	}
	s := &Session{UserID: uuid.New(), Role: "HR"}
	ctx := WithSession(context.Background(), s)
	got := GetSession(ctx)
	if got != s {
		t.Fatalf("session: want=%p got=%p", s, got)
	}
	if !got.IsHR() || got.IsCandidate() {
		t.Fatalf("role checks: want hr only, got IsHR=%v IsCandidate=%v", got.IsHR(), got.IsCandidate())
	}
}

func TestDefaultHandlesNil(t *testing.T) {
	//nolint:staticcheck
	if Default(nil) == nil {
		t.Fatalf("Default(nil): want background ctx got=nil")
	}
}
