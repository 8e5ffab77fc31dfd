// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/verdictsec/verdict/controller"
	"github.com/verdictsec/verdict/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	jwtSecret []byte,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SubjectAuth(jwtSecret))
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	api := router.Group("/api/v1")

	controllers.Decision.RegisterRoutes(api)
	controllers.Policy.RegisterRoutes(api)
	controllers.Files.RegisterRoutes(api)

	return router
}
