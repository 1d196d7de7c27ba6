package v1

import (
	"net/http"

	"contact-relay/internal/delivery/http/middleware"
	"contact-relay/internal/delivery/http/response"
	"contact-relay/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Contact  *ContactHandler
	HealthUC usecase.HealthUsecase
	CORS     middleware.CORSPolicy
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(deps.CORS)) // answers preflights, so only RequestID may precede it
	r.Use(gin.Logger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Recovery())

	v1 := r.Group("/v1")

	api := v1.Group("")
	api.Use(middleware.SecurityHeadersMiddleware())

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success().Render(c)
			return
		}
		c.JSON(http.StatusOK, deps.HealthUC.Check(c.Request.Context()))
	})

	// Public routes. Method checks live in the handler so every shell
	// answers 405 the same way.
	api.Any("/contact", deps.Contact.SubmitContact)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(func(c *gin.Context) {
		response.Error(http.StatusNotFound, "Not found", "").Render(c)
	})

	return r
}
