package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jamb_cbt_backend/internal/config"
	"jamb_cbt_backend/internal/controller"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/service"
	"jamb_cbt_backend/pkg/database"
	"jamb_cbt_backend/pkg/logger"
	"jamb_cbt_backend/pkg/monitoring"
	"jamb_cbt_backend/pkg/security"
	"jamb_cbt_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	school   *repository.SchoolRepository
	subject  *repository.SubjectRepository
	passage  *repository.PassageRepository
	question *repository.QuestionRepository
	exam     *repository.ExamRepository
	attempt  *repository.AttemptRepository
	audit    *repository.AuditRepository
}

type services struct {
	audit    *service.AuditService
	auth     *service.AuthService
	user     *service.UserService
	school   *service.SchoolService
	subject  *service.SubjectService
	passage  *service.PassageService
	question *service.QuestionService
	exam     *service.ExamService
	attempt  *service.AttemptService
	storage  *service.StorageService
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	school   *controller.SchoolController
	subject  *controller.SubjectController
	passage  *controller.PassageController
	question *controller.QuestionController
	exam     *controller.ExamController
	attempt  *controller.AttemptController
	audit    *controller.AuditController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig takes a freshly reloaded config. Only callbacks see it; wiring
// built at startup keeps the original values.
func (a *App) ApplyConfig(cfg *config.Config) {
	logger.Log.Info("Config reloaded")
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		school:   repository.NewSchoolRepository(db),
		subject:  repository.NewSubjectRepository(db),
		passage:  repository.NewPassageRepository(db),
		question: repository.NewQuestionRepository(db),
		exam:     repository.NewExamRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		audit:    repository.NewAuditRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.audit = service.NewAuditService(repos.audit)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, rdb, cfg)
	s.user = service.NewUserService(repos.user, repos.school)
	s.school = service.NewSchoolService(repos.school, s.audit)
	s.subject = service.NewSubjectService(repos.subject)
	s.passage = service.NewPassageService(repos.passage, repos.subject, s.audit)
	s.question = service.NewQuestionService(repos.question, repos.subject, repos.passage, s.audit)
	s.exam = service.NewExamService(repos.exam, repos.subject, s.audit)
	s.attempt = service.NewAttemptService(repos.attempt, repos.exam, repos.question, repos.passage, s.audit, nil)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		user:     controller.NewUserController(s.user, s.storage),
		school:   controller.NewSchoolController(s.school),
		subject:  controller.NewSubjectController(s.subject),
		passage:  controller.NewPassageController(s.passage),
		question: controller.NewQuestionController(s.question, s.storage),
		exam:     controller.NewExamController(s.exam),
		attempt:  controller.NewAttemptController(s.attempt),
		audit:    controller.NewAuditController(s.audit),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
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

	db, err := database.InitDB(&cfg.Database)
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
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("jamb-cbt-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
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
