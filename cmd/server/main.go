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

	_ "github.com/notenexus/note-nexus-api/api/swagger"
	"github.com/notenexus/note-nexus-api/internal/gateway"
	"github.com/notenexus/note-nexus-api/internal/handler"
	"github.com/notenexus/note-nexus-api/internal/middleware"
	"github.com/notenexus/note-nexus-api/internal/repository"
	"github.com/notenexus/note-nexus-api/internal/service"
	"github.com/notenexus/note-nexus-api/pkg/cache"
	"github.com/notenexus/note-nexus-api/pkg/config"
	"github.com/notenexus/note-nexus-api/pkg/database"
	"github.com/notenexus/note-nexus-api/pkg/logger"
	corsmiddleware "github.com/notenexus/note-nexus-api/pkg/middleware/cors"
	reqidmiddleware "github.com/notenexus/note-nexus-api/pkg/middleware/requestid"
)

// @title Note Nexus API
// @version 1.0.0
// @description Backend for the Note Nexus online course platform
// @BasePath /
// @schemes http

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

	// The database handle is opened once and held for the life of the
	// process; shutdown closes it after in-flight requests drain.
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	// Redis only accelerates the public class listing, so a missing
	// instance degrades to direct reads instead of failing startup.
	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, class listing cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer redisClient.Close()
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && cacheRepo != nil)

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, cacheSvc, validate, logr)
	bookmarkSvc := service.NewBookmarkService(bookmarkRepo, validate, logr)
	stripeGw := gateway.NewStripeGateway(cfg.Stripe)
	paymentSvc := service.NewPaymentService(paymentRepo, stripeGw, cacheSvc, cfg.Stripe.Currency, validate, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		User:     handler.NewUserHandler(userSvc),
		Class:    handler.NewClassHandler(classSvc),
		Bookmark: handler.NewBookmarkHandler(bookmarkSvc),
		Payment:  handler.NewPaymentHandler(paymentSvc),
		Metrics:  handler.NewMetricsHandler(metrics),
	}, authSvc, userRepo)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
