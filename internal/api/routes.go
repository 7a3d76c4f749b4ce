package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"resumeKit/internal/api/middleware"
	"resumeKit/internal/auth"
	"resumeKit/internal/config"
	"resumeKit/internal/prefs"
)

// Dependencies are the services the routes are wired to.
type Dependencies struct {
	DB          *gorm.DB
	Redis       redis.UniversalClient
	Queue       taskEnqueuer
	Storage     exportStorage
	Prefs       prefs.Store
	AuthService *auth.AuthService
	Writer      resumeWriter
	Scanner     uploadScanner
	Logger      *slog.Logger
}

// RegisterRoutes mounts every endpoint under /v1.
func RegisterRoutes(router *gin.Engine, cfg *config.Config, deps Dependencies) {
	authHandler := NewAuthHandler(deps.DB, deps.AuthService, deps.Redis, deps.Logger, cfg.Auth, cfg.API.CookieDomain)
	resumeHandler := NewResumeHandler(deps.DB, deps.Queue, deps.Storage, deps.Prefs, deps.Logger, cfg.API.MaxResumes)
	preferenceHandler := NewPreferenceHandler(deps.Prefs, deps.Logger)
	aiHandler := NewAIHandler(deps.DB, deps.Writer, deps.Redis, deps.Logger, cfg.API.AIRateLimitPerDay, cfg.API.MaxResumes)
	uploadHandler := NewUploadHandler(deps.Scanner, cfg.Uploads.MaxBytes, deps.Logger)
	wsHandler := NewWsHandler(deps.Redis, deps.AuthService, deps.Logger, cfg.API.AllowedOrigins)

	authMiddleware := middleware.AuthMiddleware(deps.AuthService)
	passwordGate := middleware.RequirePasswordChangeCompletedMiddleware()

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		v1.GET("/themes", ListThemes)
		v1.GET("/themes/:id", GetTheme)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
		}

		protected := v1.Group("")
		protected.Use(authMiddleware, passwordGate)

		prefsGroup := protected.Group("/preferences")
		{
			prefsGroup.GET("", preferenceHandler.GetPreferences)
			prefsGroup.DELETE("", preferenceHandler.ResetPreferences)
			prefsGroup.PUT("/theme", preferenceHandler.SelectTheme)
			prefsGroup.DELETE("/theme", preferenceHandler.ResetTheme)
			prefsGroup.PATCH("/typography", preferenceHandler.PatchTypography())
			prefsGroup.PATCH("/layout", preferenceHandler.PatchLayout())
			prefsGroup.PATCH("/colors", preferenceHandler.PatchColors())
			prefsGroup.PATCH("/header", preferenceHandler.PatchHeader())
			prefsGroup.PATCH("/skills", preferenceHandler.PatchSkills())
			prefsGroup.PUT("/density", preferenceHandler.SetDensity)
			prefsGroup.POST("/sections/reorder", preferenceHandler.ReorderSections)
			prefsGroup.POST("/sections/:section/toggle", preferenceHandler.ToggleSection)
			prefsGroup.PUT("/sections/:section/title", preferenceHandler.SetSectionTitle)
			prefsGroup.PUT("/sections/:section/bullets", preferenceHandler.SetSectionBullets)
		}

		resumeGroup := protected.Group("/resume")
		{
			resumeGroup.GET("", resumeHandler.ListResumes)
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.PUT("/:id", resumeHandler.UpdateResume)
			resumeGroup.DELETE("/:id", resumeHandler.DeleteResume)
			resumeGroup.POST("/:id/fields", resumeHandler.CommitField)
			resumeGroup.GET("/:id/preview", resumeHandler.Preview)
			resumeGroup.GET("/:id/preview.html", resumeHandler.PreviewHTML)
			resumeGroup.POST("/:id/export", resumeHandler.ExportResume)
			resumeGroup.GET("/:id/download-link", resumeHandler.GetDownloadLink)
		}

		aiGroup := protected.Group("/ai")
		{
			aiGroup.POST("/generate", aiHandler.Generate)
			aiGroup.POST("/improve", aiHandler.Improve)
			aiGroup.POST("/tailor", aiHandler.Tailor)
		}

		protected.POST("/uploads/extract", uploadHandler.ExtractText)
	}
}
