package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"designhub-backend/internal/models"
)

// RemoteStatus reports whether the remote order store is configured.
type RemoteStatus interface {
	Available() bool
}

// HealthHandler godoc
// @Summary     Health check
// @Description Returns the health status of the API and whether the remote order store is configured
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func HealthHandler(remote RemoteStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status: "ok",
			Remote: remote.Available(),
		})
	}
}
