package statement

import (
	"dentops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	statements := r.Group("/statements")
	statements.Use(middleware.AuthMiddleware())
	{
		statements.POST("/preview", middleware.RateLimitByUser(5, 10), handler.Preview)
		statements.POST("", middleware.RateLimitByUser(1, 3), middleware.Idempotency(rdb), handler.Save)
		statements.GET("/period/:year/:month", middleware.RateLimitByUser(2, 5), handler.ListByPeriod)
		statements.GET("/:employeeId", middleware.RateLimitByUser(2, 5), handler.ListByEmployee)
		statements.GET("/:employeeId/:year/:month", middleware.RateLimitByUser(2, 5), handler.Get)
		statements.DELETE("/:employeeId/:year/:month", middleware.RateLimitByUser(0.5, 2), handler.Delete)
	}
}
