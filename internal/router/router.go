package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-assignment-api/internal/auth"
	"github.com/yukikurage/task-assignment-api/internal/config"
	"github.com/yukikurage/task-assignment-api/internal/handlers"
	"github.com/yukikurage/task-assignment-api/internal/middleware"
	"github.com/yukikurage/task-assignment-api/internal/repository"
	"github.com/yukikurage/task-assignment-api/internal/services"
	"github.com/yukikurage/task-assignment-api/internal/validation"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators the HTTP layer is built from.
// Redis may be nil, which disables rate limiting.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *logrus.Logger
	Redis  redis.Scripter
}

// New assembles the gin engine with its middleware and routes
func New(deps Deps) *gin.Engine {
	cfg := deps.Config
	log := deps.Log

	// Repositories and services
	userRepo := repository.NewUserRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)

	jwtManager := auth.NewJWTManager(
		cfg.JWTAccessSecret,
		cfg.JWTRefreshSecret,
		cfg.AccessTTL,
		cfg.RefreshTTL,
		cfg.JWTIssuer,
		cfg.JWTAudience,
	)
	tokenService := services.NewTokenService(userRepo, jwtManager)
	userService := services.NewUserService(userRepo, cfg.AllowAdminSignup)
	taskService := services.NewTaskService(taskRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(tokenService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	taskHandler := handlers.NewTaskHandler(taskService, log)

	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.RequestLogger(log))
	}
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.RateLimit(deps.Redis, cfg.RateLimitPerMinute, time.Minute, middleware.KeyByIP(), log))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Assignment API is running",
		})
	})

	requireAuth := middleware.RequireAuth(tokenService, log)
	taskID := middleware.RequireIDParam(handlers.ParamTaskID)

	// Token routes (public)
	token := r.Group("/api/token")
	{
		token.POST("/", authHandler.ObtainToken)
		token.POST("/refresh/", authHandler.RefreshToken)
	}

	r.PUT("/user/", middleware.OptionalAuth(tokenService, log), userHandler.CreateUser)
	r.GET("/users/:user_id/tasks/", requireAuth, middleware.RequireIDParam(handlers.ParamUserID), taskHandler.ListUserTasks)

	r.PUT("/task/", requireAuth, taskHandler.CreateTask)

	// Task routes (protected)
	tasks := r.Group("/tasks/:task_id")
	tasks.Use(requireAuth, taskID)
	{
		tasks.GET("/", taskHandler.GetTask)
		tasks.PATCH("/", taskHandler.UpdateTask)
		tasks.POST("/assign/", taskHandler.AssignUsers)
		tasks.POST("/unassign/", taskHandler.UnassignUsers)
	}

	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	return corsCfg
}
