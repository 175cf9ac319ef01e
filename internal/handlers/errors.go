package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"designhub-backend/internal/cache"
	"designhub-backend/internal/models"
	"designhub-backend/internal/services"
)

const saveFailedMessage = "Failed to save. The image might be too large or storage is full."

// respondError maps service errors to status codes.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation failed",
			Message: verr.Message,
			Field:   verr.Field,
		})
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, cache.ErrSaveFailed):
		log.Printf("Warning: %s: %v", fallback, err)
		c.JSON(http.StatusInsufficientStorage, models.ErrorResponse{
			Error:   fallback,
			Message: saveFailedMessage,
		})
	default:
		log.Printf("Error: %s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   fallback,
			Message: err.Error(),
		})
	}
}
