package app

import (
	"jamb_cbt_backend/docs"
	"jamb_cbt_backend/internal/config"
	"jamb_cbt_backend/internal/middleware"
	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	a.registerPublicRoutes(router, c, repos, cfg)

	authed := router.Group("/api/v1")
	authed.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerCandidateRoutes(authed, c)
		a.registerContentRoutes(authed, c)
		a.registerAdminRoutes(authed, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	public := router.Group("/api/v1")
	{
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/auth/refresh", c.auth.Refresh)
		public.POST("/auth/logout", c.auth.Logout)
	}

	// browse endpoints open to prospective candidates; a logged-in caller is
	// still identified so last-active tracking covers browsing too
	browse := router.Group("/api/v1")
	browse.Use(middleware.TryAuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		browse.GET("/subjects", c.subject.List)
		browse.GET("/subjects/:id", c.subject.Get)
		browse.GET("/subjects/:id/topics", c.subject.ListTopics)
		browse.GET("/schools", c.school.List)
		browse.GET("/schools/states", c.school.States)
		browse.GET("/schools/:id", c.school.Get)
	}
}

func (a *App) registerCandidateRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/auth/me", c.auth.Me)
	group.PATCH("/users/me", c.user.UpdateProfile)
	group.POST("/users/me/avatar", c.user.UploadAvatar)

	group.POST("/attempts", c.attempt.Start)
	group.GET("/attempts", c.attempt.List)
	group.GET("/attempts/:id", c.attempt.Get)
	group.PUT("/attempts/:id/responses", c.attempt.SubmitResponse)
	group.PUT("/attempts/:id/flags", c.attempt.Flag)
	group.POST("/attempts/:id/submit", c.attempt.Submit)
}

// registerContentRoutes covers the authoring surface shared by tutors and
// admins.
func (a *App) registerContentRoutes(group *gin.RouterGroup, c *controllers) {
	authoring := group.Group("")
	authoring.Use(middleware.RoleMiddleware(model.Tutor))
	{
		authoring.POST("/passages", c.passage.Create)
		authoring.GET("/passages", c.passage.List)
		authoring.GET("/passages/:id", c.passage.Get)
		authoring.PUT("/passages/:id", c.passage.Update)
		authoring.DELETE("/passages/:id", c.passage.Delete)

		authoring.POST("/questions", c.question.Create)
		authoring.GET("/questions", c.question.List)
		authoring.GET("/questions/:id", c.question.Get)
		authoring.PUT("/questions/:id", c.question.Update)
		authoring.DELETE("/questions/:id", c.question.Delete)
		authoring.POST("/questions/media", c.question.UploadMedia)

		authoring.POST("/topics", c.subject.CreateTopic)

		authoring.POST("/exam-templates", c.exam.CreateTemplate)
		authoring.GET("/exam-templates", c.exam.ListTemplates)
		authoring.GET("/exam-templates/:id", c.exam.GetTemplate)
		authoring.PUT("/exam-templates/:id", c.exam.UpdateTemplate)
		authoring.DELETE("/exam-templates/:id", c.exam.DeleteTemplate)

		authoring.POST("/exam-instances", c.exam.CreateInstance)
		authoring.DELETE("/exam-instances/:id", c.exam.DeleteInstance)
	}

	// candidates need to see what is scheduled for them
	group.GET("/exam-instances", c.exam.ListInstances)
	group.GET("/exam-instances/:id", c.exam.GetInstance)
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.List)
		admin.PUT("/users/:id/status", c.user.SetStatus)

		admin.POST("/subjects", c.subject.Create)

		admin.POST("/schools", c.school.Create)
		admin.PUT("/schools/:id", c.school.Update)
		admin.DELETE("/schools/:id", c.school.Delete)

		admin.GET("/audit-logs", c.audit.List)
	}
}
