package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"designhub-backend/internal/models"
	"designhub-backend/internal/services"
)

type PortfolioHandler struct {
	portfolio *services.PortfolioService
}

func NewPortfolioHandler(portfolio *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio}
}

// ListProjects godoc
// @Summary     List portfolio projects
// @Description Lists portfolio projects, optionally filtered by category, subcategory and a case-insensitive search over name and description
// @Tags        portfolio
// @Produce     json
// @Param       category    query string false "Category"
// @Param       subcategory query string false "Subcategory"
// @Param       q           query string false "Search text"
// @Success     200 {object} models.ProjectListResponse
// @Router      /api/v1/projects [get]
func (h *PortfolioHandler) ListProjects(c *gin.Context) {
	filter := models.ProjectFilter{
		Category:    models.Category(c.Query("category")),
		Subcategory: models.SubCategory(c.Query("subcategory")),
		Query:       c.Query("q"),
	}
	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: h.portfolio.List(filter)})
}

// GetProject godoc
// @Summary     Get a project
// @Tags        portfolio
// @Produce     json
// @Param       project_id path string true "Project ID"
// @Success     200 {object} models.ProjectResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/projects/{project_id} [get]
func (h *PortfolioHandler) GetProject(c *gin.Context) {
	project, err := h.portfolio.Get(c.Param("project_id"))
	if err != nil {
		respondError(c, err, "failed to get project")
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Project: project})
}

// CreateProject godoc
// @Summary     Create a project
// @Description Adds a portfolio project. An empty imageUrl is replaced by a placeholder image.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.ProjectForm true "Project"
// @Success     201 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     507 {object} models.ErrorResponse
// @Router      /api/v1/admin/projects [post]
func (h *PortfolioHandler) CreateProject(c *gin.Context) {
	var form models.ProjectForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	project, err := h.portfolio.Create(c.Request.Context(), form)
	if err != nil {
		respondError(c, err, "failed to save project")
		return
	}
	c.JSON(http.StatusCreated, models.ProjectResponse{Project: project})
}

// UpdateProject godoc
// @Summary     Replace a project
// @Description Replaces every field of a project, keeping its id and creation time
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Param       request body models.ProjectForm true "Project"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     507 {object} models.ErrorResponse
// @Router      /api/v1/admin/projects/{project_id} [put]
func (h *PortfolioHandler) UpdateProject(c *gin.Context) {
	var form models.ProjectForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	project, err := h.portfolio.Update(c.Request.Context(), c.Param("project_id"), form)
	if err != nil {
		respondError(c, err, "failed to save project")
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Project: project})
}

// DeleteProject godoc
// @Summary     Delete a project
// @Tags        admin
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     204
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/projects/{project_id} [delete]
func (h *PortfolioHandler) DeleteProject(c *gin.Context) {
	if err := h.portfolio.Delete(c.Request.Context(), c.Param("project_id")); err != nil {
		respondError(c, err, "failed to delete project")
		return
	}
	c.Status(http.StatusNoContent)
}
