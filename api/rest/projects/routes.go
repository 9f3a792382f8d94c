package projects

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, svc ProjectService, guard gin.HandlerFunc) {
	projectsGroup := router.Group("/projects")
	projectsGroup.Use(guard)
	{
		projectsGroup.POST("", CreateProjectHandler(svc))
		projectsGroup.GET("", ListProjectsHandler(svc))
		projectsGroup.GET("/with-tasks", ListProjectsWithTasksHandler(svc))
		projectsGroup.GET("/:id", GetProjectHandler(svc))
		projectsGroup.PATCH("/:id", UpdateProjectHandler(svc))
		projectsGroup.DELETE("/:id", DeleteProjectHandler(svc))
	}
}
