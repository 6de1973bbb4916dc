package httpx

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), true},
		{"503", &StatusError{StatusCode: http.StatusServiceUnavailable}, true},
		{"429", &StatusError{StatusCode: http.StatusTooManyRequests}, true},
		{"404", &StatusError{StatusCode: http.StatusNotFound}, false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Fatalf("%s: want=%v got=%v", tc.name, tc.want, got)
		}
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{StatusCode: 404}
	if err.Error() != "404 Not Found" {
		t.Fatalf("message: want=%q got=%q", "404 Not Found", err.Error())
	}
}
