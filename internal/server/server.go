package server

import (
	"net/http"
	"time"

	"jobready-portal/config"
	"jobready-portal/internal/handlers"
	"jobready-portal/internal/middleware"
	"jobready-portal/pkg/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server wires middleware, handlers and routes into a gin engine
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	router *gin.Engine
}

// New builds a fully routed server
func New(cfg *config.Config, logger *zap.Logger, db *gorm.DB) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		db:     db,
		router: gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router exposes the gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.SecurityHeaders())

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: s.cfg.CORS.Credentials,
		MaxAge:           12 * time.Hour,
	}))

	s.router.Use(middleware.RateLimit(s.cfg.RateLimit))
	s.router.Use(middleware.RequestLogger())
}

func (s *Server) setupRoutes() {
	jwtService := auth.NewJWTService(s.cfg)

	authHandler := handlers.NewAuthHandler(s.db, s.logger, jwtService)
	userHandler := handlers.NewUserHandler(s.db, s.logger)
	jobHandler := handlers.NewJobHandler(s.db, s.logger)
	cvHandler := handlers.NewCVHandler(s.db, s.logger)
	trainingHandler := handlers.NewTrainingHandler(s.db, s.logger)
	translationHandler := handlers.NewTranslationHandler(s.db, s.logger)

	s.router.GET("/health", s.healthCheck)

	if s.cfg.IsDevelopment() {
		s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := s.router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/verify", middleware.RequireAuth(jwtService), authHandler.Verify)
	}

	users := api.Group("/users", middleware.RequireAuth(jwtService))
	{
		users.GET("/me", userHandler.GetProfile)
		users.PUT("/me", userHandler.UpdateProfile)
		users.GET("/me/stats", userHandler.GetStats)
	}

	jobs := api.Group("/jobs")
	{
		jobs.GET("", middleware.OptionalAuth(jwtService), jobHandler.ListJobs)
		jobs.GET("/applications/my", middleware.RequireAuth(jwtService), jobHandler.MyApplications)
		jobs.GET("/saved/my", middleware.RequireAuth(jwtService), jobHandler.MySavedJobs)
		jobs.GET("/:id", middleware.OptionalAuth(jwtService), jobHandler.GetJob)
		jobs.POST("/:id/apply", middleware.RequireAuth(jwtService), jobHandler.Apply)
		jobs.POST("/:id/save", middleware.RequireAuth(jwtService), jobHandler.ToggleSave)
	}

	cv := api.Group("/cv", middleware.RequireAuth(jwtService))
	{
		cv.GET("", cvHandler.ListCVs)
		cv.POST("", cvHandler.CreateCV)
		cv.GET("/:id", cvHandler.GetCV)
		cv.PUT("/:id", cvHandler.UpdateCV)
		cv.DELETE("/:id", cvHandler.DeleteCV)
		cv.POST("/:id/education", cvHandler.AddEducation)
		cv.POST("/:id/experience", cvHandler.AddExperience)
		cv.POST("/:id/skills", cvHandler.ReplaceSkills)
		cv.GET("/:id/download", cvHandler.DownloadCV)
	}

	training := api.Group("/training")
	{
		training.GET("/courses", middleware.OptionalAuth(jwtService), trainingHandler.ListCourses)
		training.GET("/courses/:id", middleware.OptionalAuth(jwtService), trainingHandler.GetCourse)
		training.POST("/courses/:id/enroll", middleware.RequireAuth(jwtService), trainingHandler.Enroll)
		training.PUT("/courses/:id/progress", middleware.RequireAuth(jwtService), trainingHandler.UpdateProgress)
		training.GET("/my-courses", middleware.RequireAuth(jwtService), trainingHandler.MyCourses)
		training.GET("/categories", trainingHandler.ListCategories)
	}

	translation := api.Group("/translation")
	{
		translation.POST("/translate", translationHandler.Translate)
		translation.POST("/translate-batch", translationHandler.TranslateBatch)
		translation.POST("/detect", translationHandler.Detect)
		translation.POST("/translate-job", translationHandler.TranslateJob)
		translation.GET("/languages", translationHandler.ListLanguages)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "JobReady SA API",
	})
}
