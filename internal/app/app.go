package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"masteryloop_backend/internal/config"
	"masteryloop_backend/internal/controller"
	"masteryloop_backend/internal/repository"
	"masteryloop_backend/internal/service"
	"masteryloop_backend/pkg/database"
	"masteryloop_backend/pkg/logger"
	"masteryloop_backend/pkg/monitoring"
	"masteryloop_backend/pkg/security"
	"masteryloop_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user       *repository.UserRepository
	progress   *repository.ProgressRepository
	quizResult *repository.QuizResultRepository
	path       *repository.LearningPathRepository
	career     *repository.CareerRepository
	sprint     *repository.SprintRepository
	settings   *repository.SettingsRepository
	focus      *repository.FocusRepository
}

type services struct {
	ai        *service.AIService
	evaluator *service.Evaluator
	flow      *service.FlowService
	user      *service.UserService
	career    *service.CareerService
	drill     *service.DrillService
	analytics *service.AnalyticsService
	dashboard *service.DashboardService
	storage   service.StorageProvider
}

type controllers struct {
	flow      *controller.FlowController
	user      *controller.UserController
	career    *controller.CareerController
	drill     *controller.DrillController
	analytics *controller.AnalyticsController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		progress:   repository.NewProgressRepository(db),
		quizResult: repository.NewQuizResultRepository(db),
		path:       repository.NewLearningPathRepository(db),
		career:     repository.NewCareerRepository(db),
		sprint:     repository.NewSprintRepository(db),
		settings:   repository.NewSettingsRepository(db),
		focus:      repository.NewFocusRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	s := &services{storage: storage}

	s.ai = service.NewAIService(cfg.AI)
	s.evaluator = service.NewEvaluator(s.ai)
	s.flow = service.NewFlowService(s.ai, s.evaluator, repos.progress, repos.quizResult, repos.path)
	s.user = service.NewUserService(repos.user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	s.career = service.NewCareerService(repos.career, repos.sprint, s.ai, service.NewPDFResumeReader())
	s.drill = service.NewDrillService(
		service.NewRedisSessionStore(rdb),
		repos.quizResult,
		time.Duration(cfg.Drill.DurationSeconds)*time.Second,
	)
	s.analytics = service.NewAnalyticsService(repos.progress, repos.quizResult)
	s.dashboard = service.NewDashboardService(repos.settings, repos.focus, repos.path)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		flow:      controller.NewFlowController(s.flow),
		user:      controller.NewUserController(s.user),
		career:    controller.NewCareerController(s.career, s.storage),
		drill:     controller.NewDrillController(s.drill),
		analytics: controller.NewAnalyticsController(s.analytics),
		dashboard: controller.NewDashboardController(s.dashboard),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode != "release" || cfg.ForceMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("masteryloop", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// ReloadConfig applies the settings that are safe to change while the server
// runs. Listener address, database, and middleware settings still require a
// restart.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.services.ai.UpdateConfig(cfg.AI)
	logger.Log.Info("Applied reloaded configuration",
		zap.String("ai_model", cfg.AI.Model),
		zap.String("ai_base_url", cfg.AI.BaseURL))
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
