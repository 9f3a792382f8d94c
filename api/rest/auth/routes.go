package auth

import (
	"github.com/gin-gonic/gin"
)

// registers all authentication routes
func RegisterRoutes(router *gin.RouterGroup, deps Deps) {
	limit := deps.RateLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", limit, RegisterHandler(deps))
		authGroup.POST("/login", limit, LoginHandler(deps))
		authGroup.POST("/logout", LogoutHandler(deps))

		authGroup.GET("/me", deps.Guard, GetCurrentUserHandler(deps))
		authGroup.PATCH("/me", deps.Guard, UpdateProfileHandler(deps))
		authGroup.PATCH("/update", deps.Guard, UpdatePasswordHandler(deps))

		authGroup.GET("/:provider", BeginAuthHandler(deps))
		authGroup.GET("/:provider/callback", CallbackHandler(deps))
	}
}
