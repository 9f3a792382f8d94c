package tasks

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codeberg.org/lumina/server/internal/auth"
	"codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/lumina/tasks"
)

// CreateTaskHandler godoc
// @Summary Create a task
// @Description A projectId, when given, must name one of the caller's projects
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body CreateTaskRequest true "Task"
// @Success 201 {object} tasks.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks [post]
// @Security BearerAuth
func CreateTaskHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req CreateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationFailed(c, err)
			return
		}

		task, err := svc.Create(c.Request.Context(), userID, tasks.CreateInput{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
			Priority:    req.Priority,
			Done:        req.Done,
			DueDate:     req.DueDate,
			ProjectID:   req.ProjectID,
		})

		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, task)
	}
}

// ListTasksHandler godoc
// @Summary List the current user's tasks
// @Tags tasks
// @Produce json
// @Param projectId query string false "Only tasks of this project"
// @Param status query string false "Only tasks with this status"
// @Param priority query string false "Only tasks with this priority"
// @Success 200 {array} tasks.Task
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks [get]
// @Security BearerAuth
func ListTasksHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		list, err := svc.List(c.Request.Context(), userID, tasks.Filters{
			ProjectID: c.Query("projectId"),
			Status:    c.Query("status"),
			Priority:  c.Query("priority"),
		})

		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// ListProjectTasksHandler godoc
// @Summary List the tasks of one project
// @Tags tasks
// @Produce json
// @Param projectId path string true "Project ID"
// @Param done query bool false "Only done (true) or open (false) tasks"
// @Success 200 {array} tasks.Task
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks/project/{projectId} [get]
// @Security BearerAuth
func ListProjectTasksHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		// anything but true or false means no filter
		var done *bool
		if v, err := strconv.ParseBool(c.Query("done")); err == nil {
			done = &v
		}

		list, err := svc.ListByProject(c.Request.Context(), userID, c.Param("projectId"), done)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// GetTaskHandler godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} tasks.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
// @Security BearerAuth
func GetTaskHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		taskID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		task, err := svc.Get(c.Request.Context(), userID, taskID)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

// UpdateTaskHandler godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} tasks.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [patch]
// @Security BearerAuth
func UpdateTaskHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		taskID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		var req UpdateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationFailed(c, err)
			return
		}

		task, err := svc.Update(c.Request.Context(), userID, taskID, tasks.UpdateInput{
			Title:        req.Title,
			Description:  req.Description,
			Status:       req.Status,
			Priority:     req.Priority,
			Done:         req.Done,
			DueDate:      req.DueDate.Value,
			ProjectID:    req.ProjectID,
			ClearDueDate: req.DueDate.Cleared(),
		})

		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

// AssignProjectHandler godoc
// @Summary Move a task into a project
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Param projectId path string true "Project ID"
// @Success 200 {object} tasks.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id}/assign-project/{projectId} [patch]
// @Security BearerAuth
func AssignProjectHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		taskID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		projectID, ok := errors.ValidatePathUUID(c, "projectId")
		if !ok {
			return
		}

		task, err := svc.AssignProject(c.Request.Context(), userID, taskID, projectID)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

// DeleteTaskHandler godoc
// @Summary Delete a task
// @Description Idempotent; reports how many tasks were removed
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} CountResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
// @Security BearerAuth
func DeleteTaskHandler(svc TaskService) gin.HandlerFunc {
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

// RecentCountHandler godoc
// @Summary Count tasks created in the last 24 hours
// @Tags tasks
// @Produce json
// @Success 200 {object} CountResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks/stats/last24h [get]
// @Security BearerAuth
func RecentCountHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		n, err := svc.CountRecent(c.Request.Context(), userID)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, CountResponse{Count: n})
	}
}

// CompletionStatsHandler godoc
// @Summary Total and completed task counts
// @Tags tasks
// @Produce json
// @Success 200 {object} tasks.CompletionStats
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks/stats/completion [get]
// @Security BearerAuth
func CompletionStatsHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		stats, err := svc.CompletionStats(c.Request.Context(), userID)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}
