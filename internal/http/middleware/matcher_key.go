package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/hirebridge-backend/internal/http/response"
)

const headerMatcherKey = "X-Matcher-Key"

// RequireMatcherKey guards the match-score intake. An empty key disables the
// routes entirely.
func RequireMatcherKey(key string) gin.HandlerFunc {
	key = strings.TrimSpace(key)
	return func(c *gin.Context) {
		if key == "" {
			response.Abort(c, http.StatusNotFound, "not_found", errors.New("matcher intake disabled"))
			return
		}
		got := strings.TrimSpace(c.GetHeader(headerMatcherKey))
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			response.Abort(c, http.StatusUnauthorized, "unauthenticated", errors.New("invalid matcher key"))
			return
		}
		c.Next()
	}
}
