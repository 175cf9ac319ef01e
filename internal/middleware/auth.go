package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"designhub-backend/internal/models"
)

const AdminUserKey = "admin_user"

// TokenParser returns the admin username a token was issued to.
type TokenParser interface {
	Parse(token string) (string, error)
}

// SessionChecker reports whether an admin session is marked active.
type SessionChecker interface {
	AdminAuthenticated(ctx context.Context) (bool, error)
}

// AdminAuth requires a valid Bearer token and an active admin session. The
// WebSocket route may pass the token as ?token= since browsers cannot set
// headers on upgrade requests.
func AdminAuth(tokens TokenParser, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		username, err := tokens.Parse(tokenString)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		active, err := sessions.AdminAuthenticated(c.Request.Context())
		if err != nil || !active {
			abortUnauthorized(c, "session ended")
			return
		}

		c.Set(AdminUserKey, username)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if t := c.Query("token"); t != "" {
			return t, true
		}
		return "", false
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "unauthorized",
		Message: msg,
	})
}
