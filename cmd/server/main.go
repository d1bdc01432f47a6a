package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lessons_backend/internal/app/di"
	"lessons_backend/internal/app/router"
	lessonhandler "lessons_backend/internal/feature/lessons/transport/handler"
	lessonusecase "lessons_backend/internal/feature/lessons/usecase"
	paymenthandler "lessons_backend/internal/feature/payments/transport/handler"
	paymentusecase "lessons_backend/internal/feature/payments/usecase"
	useradapters "lessons_backend/internal/feature/users/adapters"
	userhandler "lessons_backend/internal/feature/users/transport/handler"
	userusecase "lessons_backend/internal/feature/users/usecase"
	"lessons_backend/internal/platform/config"
	"lessons_backend/internal/platform/db"
	"lessons_backend/internal/platform/http/middleware"
	"lessons_backend/internal/platform/logger"
	platformredis "lessons_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

func run() error {
	envErr := godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	if envErr != nil {
		lg.Info(".env not found; using system environment variables")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// db
	gdb, err := db.OpenDB(cfg.DB, lg)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	// Redis is optional; without it the lesson cache is bypassed.
	rdb, err := platformredis.NewRedisClient(context.Background(), cfg.Redis, lg)
	if err != nil {
		lg.Warn("redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				lg.Error("failed to close redis client", zap.Error(err))
			}
		}()
	}

	if cfg.Stripe.SecretKey == "" {
		lg.Warn("STRIPE_SECRET_KEY is not set; checkout endpoints will fail")
	}

	// Repository
	userRepo := useradapters.NewUserGorm(gdb)
	lessonRepo := di.NewLessonRepository(gdb, rdb, cfg.LessonCacheTTL)
	checkout := di.NewCheckoutProvider(cfg.Stripe, lg)

	// Usecase
	userUC := userusecase.NewUserUsecase(userRepo)
	lessonUC := lessonusecase.NewLessonUsecase(lessonRepo)
	paymentUC := paymentusecase.NewPaymentUsecase(checkout, userRepo)

	// Handler
	userH := userhandler.NewUserHandler(userUC, lg)
	lessonH := lessonhandler.NewLessonHandler(lessonUC, lg)
	paymentH := paymenthandler.NewPaymentHandler(paymentUC, lg)

	checkoutLimit, err := middleware.RateLimit(cfg.CheckoutRateLimit)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(lg, checkoutLimit, userH, lessonH, paymentH),
		ReadHeaderTimeout: 10 * time.Second,
	}

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		lg.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("server shutdown error", zap.Error(err))
		}
	}()

	lg.Info("server listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	<-idle

	lg.Info("server stopped gracefully")
	return nil
}
