package contract

import (
	"dentops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	contracts := r.Group("/contracts")
	contracts.Use(middleware.AuthMiddleware())
	{
		contracts.GET("/:employeeId/salary-info", middleware.RateLimitByUser(3, 10), handler.GetSalaryInfo)
	}
}
