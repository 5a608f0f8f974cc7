package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-portal/api/swagger"
	"github.com/noah-isme/course-portal/internal/directory"
	"github.com/noah-isme/course-portal/internal/handler"
	internalmiddleware "github.com/noah-isme/course-portal/internal/middleware"
	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/repository"
	"github.com/noah-isme/course-portal/internal/service"
	"github.com/noah-isme/course-portal/pkg/cache"
	"github.com/noah-isme/course-portal/pkg/config"
	"github.com/noah-isme/course-portal/pkg/database"
	"github.com/noah-isme/course-portal/pkg/export"
	"github.com/noah-isme/course-portal/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-portal/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-portal/pkg/middleware/requestid"
)

// @title Course Portal API
// @version 1.0.0
// @description Course enrollment portal backed by the remote course directory
// @BasePath /api/v1
// @schemes http

type sessionStore interface {
	Get(ctx context.Context, key string) (*models.Student, error)
	Put(ctx context.Context, key string, student models.Student) error
	Delete(ctx context.Context, key string) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := openSessionStore(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open session store", "backend", cfg.Session.Backend, "error", err)
	}
	defer closeStore()

	metricsSvc := service.NewMetricsService()
	dir := directory.New(cfg.Directory,
		directory.WithObserver(metricsSvc),
		directory.WithLogger(logr.Named("directory")),
	)
	validate := validator.New()

	catalogSvc := service.NewCatalogService(dir, metricsSvc, logr)
	portalSvc := service.NewPortalService(service.PortalDeps{
		Sessions:    service.NewSessionService(store, dir, cfg.Session.Key, metricsSvc, logr),
		Identity:    service.NewIdentityService(dir, validate, logr),
		Coordinator: service.NewEnrollmentCoordinator(dir, catalogSvc, metricsSvc, logr),
		Catalog:     catalogSvc,
		MyCourses:   service.NewMyCoursesService(dir, catalogSvc, metricsSvc, logr),
		Admin:       service.NewAdminService(dir, catalogSvc, validate, logr),
		Exporter:    service.NewExportService(export.NewCSVExporter(), export.NewPDFExporter(), logr),
	}, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	handler.RegisterOpsRoutes(r, handler.NewMetricsHandler(metricsSvc, portalSvc))
	handler.RegisterPortalRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Portal:    handler.NewPortalHandler(portalSvc),
		Catalog:   handler.NewCatalogHandler(portalSvc),
		Detail:    handler.NewDetailHandler(portalSvc),
		MyCourses: handler.NewMyCoursesHandler(portalSvc),
		Admin:     handler.NewAdminHandler(portalSvc),
	}, cfg.Features)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go portalSvc.Boot(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "directory", cfg.Directory.BaseURL, "session_backend", cfg.Session.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func openSessionStore(cfg *config.Config, logr *zap.Logger) (sessionStore, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewRedisSessionRepository(client, logr)
		return repo, func() { _ = repo.Close() }, nil
	case config.SessionBackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresSessionRepository(db), func() { _ = db.Close() }, nil
	case config.SessionBackendFile, "":
		repo, err := repository.NewFileSessionRepository(cfg.Session.FileDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
