// internal/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yahiawalid23/HEPTA/internal/i18n"
	"github.com/yahiawalid23/HEPTA/internal/services"
	"github.com/yahiawalid23/HEPTA/internal/utils"
)

type AuthHandler struct {
	authService  *services.AuthService
	cookieName   string
	secureCookie bool
}

func NewAuthHandler(authService *services.AuthService, cookieName string, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieName:   cookieName,
		secureCookie: secureCookie,
	}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationFailed), nil)
		return
	}

	session, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthNotConfigured):
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "AUTH_NOT_CONFIGURED", i18n.T(lang, i18n.KeyAuthNotConfigured), nil)
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
		default:
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationFailed), nil)
		}
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, session.Token, int(h.authService.SessionTTL().Seconds()), "/", "", h.secureCookie, true)

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"username":   session.Username,
		"expires_at": session.ExpiresAt,
	})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secureCookie, true)
	utils.MessageResponse(c, i18n.KeyAuthLogoutSuccess)
}

// GET /api/admin/session
func (h *AuthHandler) Session(c *gin.Context) {
	admin, _ := utils.GetAdminFromContext(c)
	utils.SuccessResponse(c, gin.H{"username": admin})
}
