package app

import (
	"masteryloop_backend/docs"
	"masteryloop_backend/internal/config"
	"masteryloop_backend/internal/middleware"
	"masteryloop_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	router.Use(func(ctx *gin.Context) {
		ctx.Set("config", cfg)
		ctx.Next()
	})

	// Public routes: no session required.
	public := router.Group("/api")
	{
		public.POST("/session", c.user.Session)
		public.POST("/register", c.user.Register)
		public.POST("/login", c.user.Login)
		public.GET("/subjects", c.dashboard.Subjects)
		public.GET("/subjects/:id", c.dashboard.Subject)
		public.GET("/dashboard/quote", c.dashboard.FocusQuote)
	}

	// Account routes: credential-backed token required, no guest fallback.
	account := router.Group("/api")
	account.Use(middleware.AuthMiddleware())
	{
		account.POST("/users/password", c.user.ChangePassword)
	}

	// Learner routes: a valid token binds the session, a missing one binds
	// the resident default user.
	api := router.Group("/api")
	api.Use(middleware.TryAuth(s.user))
	{
		api.GET("/users/me", c.user.Me)
		api.POST("/users/setup", c.user.Setup)

		api.GET("/flow", c.flow.View)
		api.POST("/flow/start", c.flow.Start)
		api.POST("/flow/practice", c.flow.Practice)
		api.POST("/flow/submit", c.flow.Submit)
		api.POST("/flow/continue", c.flow.Continue)
		api.POST("/flow/retry", c.flow.Retry)
		api.POST("/flow/concept-check", c.flow.ConceptCheck)

		api.GET("/career/profile", c.career.Profile)
		api.PUT("/career/profile", c.career.SaveProfile)
		api.POST("/career/analyze", c.career.AnalyzeResume)
		api.GET("/career/sprint", c.career.ListSprintTasks)
		api.POST("/career/sprint", c.career.CreateSprintTask)
		api.PATCH("/career/sprint/:id", c.career.UpdateSprintTask)
		api.DELETE("/career/sprint/:id", c.career.DeleteSprintTask)

		api.POST("/drills", c.drill.Start)
		api.GET("/drills/:id", c.drill.Status)
		api.POST("/drills/:id/answers", c.drill.Answer)
		api.POST("/drills/:id/submit", c.drill.Submit)

		api.GET("/analytics/overall", c.analytics.Overall)
		api.GET("/analytics/weekly", c.analytics.Weekly)
		api.GET("/analytics/monthly", c.analytics.Monthly)
		api.GET("/analytics/recent", c.analytics.Recent)
		api.GET("/analytics/modules", c.analytics.Modules)

		api.GET("/dashboard/path", c.dashboard.LearningPath)
		api.GET("/settings", c.dashboard.Settings)
		api.PUT("/settings", c.dashboard.SaveSettings)
	}
}
