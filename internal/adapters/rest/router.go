// Package rest is the HTTP adapter: a gin router over the primary ports.
package rest

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/kandy/internal/adapters/rest/handlers"
	"github.com/example/kandy/internal/adapters/rest/response"
	"github.com/example/kandy/internal/ports/primary"
)

// Services are the primary ports the router exposes.
type Services struct {
	Tasks     primary.TaskService
	Issues    primary.IssueService
	Dashboard primary.DashboardService
	Users     primary.UserService
	Auth      primary.AuthService
}

// Options tune the router.
type Options struct {
	CORSOrigins        []string
	LoginRatePerMinute int
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(svc Services, log *logrus.Logger, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(log), Recovery(log))

	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders:    []string{"Content-Length", requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.NoRoute(func(c *gin.Context) {
		response.HandleError(response.NewNotFoundError("route not found"), c)
	})

	router.GET("/health", handlers.Health)

	authHandler := handlers.NewAuthHandler(svc.Auth, log)
	router.POST("/auth/login", RateLimit(opts.LoginRatePerMinute), authHandler.Login)

	api := router.Group("", Authenticate(svc.Auth))
	handlers.NewTaskHandler(svc.Tasks, log).EnrichRoutes(api)
	handlers.NewIssueHandler(svc.Issues, log).EnrichRoutes(api)
	handlers.NewDashboardHandler(svc.Dashboard, log).EnrichRoutes(api)
	handlers.NewUserHandler(svc.Users, log).EnrichRoutes(api)

	return router
}
