package projects

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/lumina/server/internal/auth"
	"codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/lumina/projects"
)

// CreateProjectHandler godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Param request body CreateProjectRequest true "Project"
// @Success 201 {object} projects.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects [post]
// @Security BearerAuth
func CreateProjectHandler(svc ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationFailed(c, err)
			return
		}

		project, err := svc.Create(c.Request.Context(), userID, projects.CreateInput{
			Name:        req.Name,
			Description: req.Description,
		})

		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, project)
	}
}

// ListProjectsHandler godoc
// @Summary List the current user's projects
// @Tags projects
// @Produce json
// @Success 200 {array} projects.Project
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects [get]
// @Security BearerAuth
func ListProjectsHandler(svc ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		list, err := svc.List(c.Request.Context(), userID)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// ListProjectsWithTasksHandler godoc
// @Summary List the current user's projects with their tasks
// @Tags projects
// @Produce json
// @Success 200 {array} projects.ProjectWithTasks
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects/with-tasks [get]
// @Security BearerAuth
func ListProjectsWithTasksHandler(svc ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		list, err := svc.ListWithTasks(c.Request.Context(), userID)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// GetProjectHandler godoc
// @Summary Get a project
// @Description Projects of other users answer 404 exactly like missing ones
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} projects.Project
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [get]
// @Security BearerAuth
func GetProjectHandler(svc ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		projectID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		project, err := svc.Get(c.Request.Context(), userID, projectID)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

// UpdateProjectHandler godoc
// @Summary Update a project
// @Description Partial update. A status change must be a legal transition from the current status
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body UpdateProjectRequest true "Fields to change"
// @Success 200 {object} projects.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /projects/{id} [patch]
// @Security BearerAuth
func UpdateProjectHandler(svc ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		projectID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		var req UpdateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationFailed(c, err)
			return
		}

		project, err := svc.Update(c.Request.Context(), userID, projectID, projects.UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Status:      req.Status,
		})

		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

// DeleteProjectHandler godoc
// @Summary Delete a project
// @Description Idempotent; reports how many projects were removed. Tasks are kept and detached
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} CountResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects/{id} [delete]
// @Security BearerAuth
func DeleteProjectHandler(svc ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		n, err := svc.Delete(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, CountResponse{Count: n})
	}
}
