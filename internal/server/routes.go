// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"CampusHire-backend/internal/auth"
	"CampusHire-backend/internal/controller/application"
	"CampusHire-backend/internal/controller/dashboard"
	"CampusHire-backend/internal/controller/jobpost"
	"CampusHire-backend/internal/middleware"
	"CampusHire-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(s.Log), s.Metrics.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.Config.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader(s.Config.IsProduction()), middleware.SizeLimit(middleware.DefaultMaxBodyBytes))

	lAuth := auth.NewLocalAuthHandler(s.DB, s.Tokens, s.Attempts)
	logout := auth.NewLogoutController(s.Blacklist)
	jobs := jobpost.NewJobPostController(s.Service)
	applications := application.NewApplicationController(s.Service)
	dash := dashboard.NewDashboardController(s.Service)
	limiter := middleware.RateLimiterMiddleware(s.RateStore)

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("login", limiter, lAuth.LocalLoginHandler)
			authRoute.POST("register", limiter, lAuth.LocalRegisterHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB, s.Tokens), middleware.JwtBlacklistCheck(s.Blacklist), limiter)

			needAuth.POST("auth/logout", logout.LogoutHandler)
			needAuth.GET("auth/me", auth.MeHandler)
			needAuth.GET("dashboard/stats", dash.StatsHandler)

			jobRoute := needAuth.Group("/jobs")
			{
				jobRoute.GET("", jobs.GetPosts)
				jobRoute.GET("/:id", jobs.GetPostByID)
				jobRoute.GET("/:id/applied", jobs.HasAppliedHandler)
				jobRoute.POST("", middleware.CheckRole(model.RoleCollege), jobs.CreateJobPostHandler)
				jobRoute.GET("/:id/applications", middleware.CheckRole(model.RoleCollege), applications.GetJobApplications)
				jobRoute.POST("/:id/applications", middleware.CheckRole(model.RoleStudent), applications.ApplicationHandler)
			}

			applicationRoute := needAuth.Group("/applications")
			{
				applicationRoute.GET("/me", middleware.CheckRole(model.RoleStudent), applications.GetMyApplications)
				applicationRoute.PATCH("/:id/status", middleware.CheckRole(model.RoleCollege), applications.UpdateStatusHandler)
			}
		}
	}

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	health := s.DB.Health()
	if health["status"] != "up" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
