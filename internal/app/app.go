package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/config"
	"github.com/Saravana-31/Form-Builder/internal/controller"
	"github.com/Saravana-31/Form-Builder/internal/grading"
	"github.com/Saravana-31/Form-Builder/internal/middleware"
	"github.com/Saravana-31/Form-Builder/internal/repository"
	"github.com/Saravana-31/Form-Builder/internal/service"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"github.com/Saravana-31/Form-Builder/pkg/configwatcher"
	"github.com/Saravana-31/Form-Builder/pkg/database"
	"github.com/Saravana-31/Form-Builder/pkg/logger"
	"github.com/Saravana-31/Form-Builder/pkg/monitoring"
	"github.com/Saravana-31/Form-Builder/pkg/security"
	"github.com/Saravana-31/Form-Builder/pkg/tracing"
	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Store           *database.Store
	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	form     repository.FormRepository
	response repository.ResponseRepository
}

type services struct {
	form     *service.FormService
	response *service.ResponseService
	results  *service.ResultsService
	storage  *service.StorageService
}

type controllers struct {
	form     *controller.FormController
	response *controller.ResponseController
	results  *controller.ResultsController
	upload   *controller.UploadController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(store *database.Store, cfg *config.Config) *repositories {
	repos := &repositories{}
	switch {
	case store.SQL != nil:
		repos.form = repository.NewGormFormRepository(store.SQL)
		repos.response = repository.NewGormResponseRepository(store.SQL)
	case store.Mongo != nil:
		repos.form = repository.NewMongoFormRepository(store.Mongo)
		repos.response = repository.NewMongoResponseRepository(store.Mongo)
	default:
		repos.form = repository.NewMemoryFormRepository()
		repos.response = repository.NewMemoryResponseRepository()
	}

	if store.Redis != nil {
		ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
		repos.form = repository.NewCachedFormRepository(repos.form, store.Redis, ttl)
	}
	return repos
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}
	grader := grading.NewDefaultGrader()

	s.storage = service.NewStorageService(cfg)
	s.form = service.NewFormService(repos.form)
	s.response = service.NewResponseService(s.form, repos.response, grader, cfg.Responses.RequireForm)
	s.results = service.NewResultsService(s.form, s.response, grader)
	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		form:     controller.NewFormController(s.form, s.response),
		response: controller.NewResponseController(s.response),
		results:  controller.NewResultsController(s.results),
		upload:   controller.NewUploadController(s.storage),
		health:   controller.NewHealthController(a.Store, a.Store.Driver),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}
	router.Use(monitoring.MetricsMiddleware())

	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())
}

// NewApp connects the store, builds every layer and registers the routes.
// Connection failures are fatal.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully", zap.String("level", logger.Level().String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	logger.Log.Info("Database connected", zap.String("driver", store.Driver), zap.Bool("redis", store.Redis != nil))

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := store.Migrate(ctx); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Log.Info("Database migration completed")
	}

	app := &App{
		Config:  cfg,
		Store:   store,
		limiter: security.NewRateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute),
	}
	if cfg.MigrateOnly {
		return app
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(&cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	repos := app.initRepositories(store, cfg)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(logger.SetLevel)
	app.RegisterConfigCallback(func(c *config.Config) {
		app.limiter.Update(c.RateLimit.MaxRequests, time.Duration(c.RateLimit.WindowMinutes)*time.Minute)
	})

	return app
}

func (a *App) reload(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("Configuration reloaded",
		zap.String("log_level", logger.Level().String()),
		zap.Int("rate_limit", cfg.RateLimit.MaxRequests))
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests and
// closes every connection the app opened.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.Config.Path != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.Config.Path, a.reload); err != nil {
				logger.Log.Warn("Config watcher stopped", zap.String("path", filepath.Clean(a.Config.Path)), zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port), zap.String("mode", a.Config.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)

	logger.Log.Info("Server exiting")
}

// Close releases the store, the tracer and the rate limiter.
func (a *App) Close(ctx context.Context) {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(ctx); err != nil {
			logger.Log.Error("Failed to close database", zap.Error(err))
		}
	}
}

func isLocalStorage(cfg *config.Config) bool {
	return cfg.Storage.Type == "" || cfg.Storage.Type == util.StorageLocal
}
