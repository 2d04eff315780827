package app

import (
	"co_attainment_backend/internal/config"
	"co_attainment_backend/internal/controller"
	"co_attainment_backend/internal/repository"
	"co_attainment_backend/internal/service"
	"co_attainment_backend/pkg/configwatcher"
	"co_attainment_backend/pkg/database"
	"co_attainment_backend/pkg/logger"
	"co_attainment_backend/pkg/monitoring"
	"co_attainment_backend/pkg/security"
	"co_attainment_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	origins         *security.OriginPolicy
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	routing       *repository.RoutingStateRepository
	notifications *repository.NotificationRepository
	submissions   *repository.SubmissionRepository
}

type services struct {
	attainment *service.AttainmentService
	workbook   *service.WorkbookService
	storage    *service.StorageService
	client     *service.SubmissionClient
	submission *service.SubmissionService
}

type controllers struct {
	attainment *controller.AttainmentController
	backend    *controller.BackendController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	ttl := cfg.Session.TTL()
	return &repositories{
		routing:       repository.NewRoutingStateRepository(rdb, cfg.Redis.KeyPrefix, ttl),
		notifications: repository.NewNotificationRepository(rdb, cfg.Redis.KeyPrefix, ttl),
		submissions:   repository.NewSubmissionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.attainment = service.NewAttainmentService(repos.routing)
	s.workbook = service.NewWorkbookService()
	s.client = service.NewSubmissionClient(cfg.Backend, repos.notifications)
	s.submission = service.NewSubmissionService(repos.submissions)

	// 后端地址与 CORS 来源支持热更新
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.client.UpdateConfig(newCfg.Backend)
	})

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		attainment: controller.NewAttainmentController(s.attainment, s.workbook, s.storage, s.client),
		backend:    controller.NewBackendController(s.submission),
		health:     controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	a.origins = security.NewOriginPolicy(cfg.CORS.AllowedOrigins)
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		a.origins.Update(newCfg.CORS.AllowedOrigins)
	})

	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.ForceMigrate || cfg.Server.Mode == gin.DebugMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config:    cfg,
		ConfigDir: "configs",
		DB:        db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// watchConfig 配置文件变更后依次执行已注册的回调
func (a *App) watchConfig(ctx context.Context) {
	path := filepath.Join(a.ConfigDir, "config.yaml")
	err := configwatcher.WatchConfig(ctx, path, func(newCfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
		logger.Log.Info("Config reloaded", zap.String("path", path))
	})
	if err != nil {
		logger.Log.Warn("Config watcher stopped", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go a.watchConfig(ctx)

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stopWatch()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// 等待进行中的后端推送写完终态通知
	if a.services != nil {
		a.services.client.Wait()
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
