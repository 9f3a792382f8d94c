package tasks

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, svc TaskService, guard gin.HandlerFunc) {
	tasksGroup := router.Group("/tasks")
	tasksGroup.Use(guard)
	{
		tasksGroup.POST("", CreateTaskHandler(svc))
		tasksGroup.GET("", ListTasksHandler(svc))
		tasksGroup.GET("/stats/last24h", RecentCountHandler(svc))
		tasksGroup.GET("/stats/completion", CompletionStatsHandler(svc))
		tasksGroup.GET("/project/:projectId", ListProjectTasksHandler(svc))
		tasksGroup.GET("/:id", GetTaskHandler(svc))
		tasksGroup.PATCH("/:id", UpdateTaskHandler(svc))
		tasksGroup.PATCH("/:id/assign-project/:projectId", AssignProjectHandler(svc))
		tasksGroup.DELETE("/:id", DeleteTaskHandler(svc))
	}
}
