package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/alextrocado/edumanage/internal/config"
	"github.com/alextrocado/edumanage/internal/handler"
	"github.com/alextrocado/edumanage/internal/middleware"
	"github.com/alextrocado/edumanage/internal/response"
	"github.com/alextrocado/edumanage/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	State      *handler.StateHandler
	Class      *handler.ClassHandler
	Student    *handler.StudentHandler
	Lesson     *handler.LessonHandler
	Assessment *handler.AssessmentHandler
	Report     *handler.ReportHandler
	Backup     *handler.BackupHandler
	Import     *handler.ImportHandler
	Media      *handler.MediaHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded photos and scans statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
		auth.POST("/unlock", middleware.RequireJWT(authService), handlers.Auth.Unlock)
	}

	// ─── 2. Protected Group (JWT + Single Session) ─────────────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireJWT(authService),
		middleware.CheckSession(authService),
	)
	{
		// Full-state document, history and sync
		api.GET("/state", handlers.State.GetState)
		api.POST("/state/undo", handlers.State.Undo)
		api.POST("/state/redo", handlers.State.Redo)
		api.GET("/state/sync-status", handlers.State.SyncStatus)

		// School calendar
		api.PUT("/calendar", handlers.Class.SetCalendar)

		// Classes
		api.GET("/classes", handlers.Class.ListClasses)
		api.POST("/classes", handlers.Class.CreateClass)
		api.GET("/classes/:id", handlers.Class.GetClass)
		api.PUT("/classes/:id", handlers.Class.UpdateClass)
		api.DELETE("/classes/:id", handlers.Class.DeleteClass)
		api.PUT("/classes/:id/schedule", handlers.Class.SetSchedule)
		api.GET("/classes/:id/report", handlers.Report.ClassReport)

		// Roster
		api.POST("/classes/:id/students", handlers.Student.AddStudent)
		api.PUT("/classes/:id/students/:sid", handlers.Student.UpdateStudent)
		api.DELETE("/classes/:id/students/:sid", handlers.Student.RemoveStudent)
		api.GET("/classes/:id/students/:sid/report", handlers.Report.StudentReport)

		// Support measures
		api.POST("/classes/:id/students/:sid/measures", handlers.Student.AddMeasure)
		api.PUT("/classes/:id/students/:sid/measures/:mid", handlers.Student.UpdateMeasure)
		api.DELETE("/classes/:id/students/:sid/measures/:mid", handlers.Student.DeleteMeasure)

		// Lessons and attendance
		api.POST("/classes/:id/lessons", handlers.Lesson.CreateLesson)
		api.POST("/classes/:id/lessons/generate", handlers.Lesson.Generate)
		api.PUT("/classes/:id/lessons/:lid", handlers.Lesson.UpdateLesson)
		api.PUT("/classes/:id/lessons/:lid/records", handlers.Lesson.SetRecords)
		api.DELETE("/classes/:id/lessons/:lid", handlers.Lesson.DeleteLesson)

		// Assessments and grades
		api.POST("/classes/:id/assessments", handlers.Assessment.CreateAssessment)
		api.DELETE("/classes/:id/assessments/:aid", handlers.Assessment.DeleteAssessment)
		api.PUT("/classes/:id/students/:sid/grades/:aid", handlers.Assessment.SetGrade)
		api.DELETE("/classes/:id/students/:sid/grades/:aid", handlers.Assessment.ClearGrade)

		// Document extraction
		api.POST("/classes/:id/import/:mode", handlers.Import.FromDocument)

		// Backup
		api.GET("/backup/export", handlers.Backup.Export)
		api.POST("/backup/import", handlers.Backup.Import)

		// Media upload
		api.POST("/media/upload", handlers.Media.UploadMedia)
	}

	// ─── 3. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/sync/stream", handlers.WS.SyncStatusStream)
	}

	return router
}
