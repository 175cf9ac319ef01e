package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"designhub-backend/internal/models"
)

// ListCategories godoc
// @Summary     List categories
// @Description Returns every category with its allowed subcategories, in display order
// @Tags        portfolio
// @Produce     json
// @Success     200 {object} models.CategoriesResponse
// @Router      /api/v1/categories [get]
func ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.CategoriesResponse{Categories: models.Categories()})
}
