package salarysetting

import (
	"dentops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	settings := r.Group("/salary-settings")
	settings.Use(middleware.AuthMiddleware())
	{
		settings.GET("", middleware.RateLimitByUser(1, 5), handler.GetAll)
		settings.GET("/:employeeId", middleware.RateLimitByUser(2, 5), handler.GetByEmployee)
		settings.PUT("", middleware.RateLimitByUser(0.5, 2), handler.Save)
	}
}
