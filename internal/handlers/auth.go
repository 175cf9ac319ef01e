package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"designhub-backend/internal/auth"
	"designhub-backend/internal/cache"
	"designhub-backend/internal/middleware"
	"designhub-backend/internal/models"
)

const accessDeniedMessage = "Access Denied. Check credentials."

type AuthHandler struct {
	verifier auth.Verifier
	tokens   *auth.TokenIssuer
	sessions *cache.Store
}

func NewAuthHandler(verifier auth.Verifier, tokens *auth.TokenIssuer, sessions *cache.Store) *AuthHandler {
	return &AuthHandler{verifier: verifier, tokens: tokens, sessions: sessions}
}

// Login godoc
// @Summary     Admin login
// @Description Exchanges the admin username and password for a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.LoginRequest true "Credentials"
// @Success     200 {object} models.LoginResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/v1/admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if err := h.verifier.Verify(req.Username, req.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Printf("Warning: credential check failed: %v", err)
		}
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized", Message: accessDeniedMessage})
		return
	}

	token, expiresAt, err := h.tokens.Issue(req.Username)
	if err != nil {
		respondError(c, err, "failed to issue token")
		return
	}
	if err := h.sessions.SetAdminAuthenticated(c.Request.Context()); err != nil {
		respondError(c, err, "failed to start session")
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Logout godoc
// @Summary     Admin logout
// @Description Ends the admin session. The body must be {"confirm": true}.
// @Tags        auth
// @Accept      json
// @Security    Bearer
// @Param       request body models.LogoutRequest true "Confirmation"
// @Success     204
// @Failure     400 {object} models.ErrorResponse
// @Router      /api/v1/admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "confirmation required",
			Message: "Send {\"confirm\": true} to log out.",
		})
		return
	}

	if err := h.sessions.ClearAdminAuthenticated(c.Request.Context()); err != nil {
		respondError(c, err, "failed to end session")
		return
	}
	c.Status(http.StatusNoContent)
}

// Session godoc
// @Summary     Current admin session
// @Tags        auth
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.SessionResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/v1/admin/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, models.SessionResponse{
		Authenticated: true,
		Username:      c.GetString(middleware.AdminUserKey),
	})
}
