package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/hirebridge-backend/internal/http/response"
	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth resolves the bearer token into a session and stores it on the
// request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.Abort(c, http.StatusUnauthorized, "unauthenticated", errors.New("missing or invalid token"))
			return
		}
		s, err := am.authService.SessionFromToken(c.Request.Context(), tokenString)
		if err != nil {
			status, code := http.StatusUnauthorized, "unauthenticated"
			if !errors.Is(err, services.ErrUnauthenticated) {
				am.log.Error("session lookup failed", "error", err)
				status, code = http.StatusInternalServerError, "backend_failure"
			}
			response.Abort(c, status, code, err)
			return
		}
		if s == nil || s.UserID == uuid.Nil {
			response.Abort(c, http.StatusUnauthorized, "unauthenticated", errors.New("invalid session"))
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithSession(c.Request.Context(), s))
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := ctxutil.GetSession(c.Request.Context())
		if s == nil {
			response.Abort(c, http.StatusUnauthorized, "unauthenticated", errors.New("missing session"))
			return
		}
		if !strings.EqualFold(s.Role, role) {
			response.Abort(c, http.StatusForbidden, "forbidden", errors.New(role+" role required"))
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
