package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/hirebridge-backend/internal/http/response"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// POST /api/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindErr(err))
		return
	}
	u, err := ah.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"ok": true, "user": u})
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindErr(err))
		return
	}
	tokens, u, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
		"user":          u,
	})
}

// POST /api/refresh
// The refresh token comes from X-Refresh-Token or {"refresh_token": "..."}.
func (ah *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := strings.TrimSpace(c.GetHeader("X-Refresh-Token"))
	if refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.ShouldBindJSON(&req)
		refreshToken = req.RefreshToken
	}
	tokens, err := ah.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

// POST /api/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context(), session(c)); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/me
func (ah *AuthHandler) Me(c *gin.Context) {
	me, err := ah.userService.GetMe(c.Request.Context(), session(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}
