package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/internal/adapter/handler"
	"github.com/FizzahNasir/FYP-Synkro/internal/app"
	httpmw "github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/http/middleware"
	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
	"github.com/FizzahNasir/FYP-Synkro/pkg/jwt"
	"github.com/FizzahNasir/FYP-Synkro/pkg/logger"
	pkgvalidator "github.com/FizzahNasir/FYP-Synkro/pkg/validator"
)

// @title           Synkro Meetings API
// @version         1.0
// @description     Meeting recording processing: transcription, summarization and action item review

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies
	zlog.Info("app.initializing",
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("storage", cfg.Storage.Type),
		zap.String("queue", cfg.Queue.Driver),
	)
	application, err := app.New(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("app.init_failed", zap.Error(err))
	}
	defer application.Close()

	stopWorkers, err := application.StartWorkers(context.WithoutCancel(ctx))
	if err != nil {
		zlog.Fatal("pipeline.start_failed", zap.Error(err))
	}

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", application.MaxUploadBytes()+1<<20)))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Cookie"},
		AllowCredentials: true,
	}))

	jwtManager := jwt.NewManager(cfg.Auth.AccessSecret, cfg.Auth.Issuer, cfg.Auth.AccessExpiry)

	meetingHandler := handler.NewMeetingHandler(application.MeetingService, application.MaxUploadBytes(), zlog.Named("http"))
	actionItemHandler := handler.NewActionItemHandler(application.ConverterService, zlog.Named("http"))

	router := handler.NewRouter(cfg, meetingHandler, actionItemHandler, httpmw.EchoAuth(jwtManager, zlog))
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		zlog.Info("server.starting",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server.start_failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	zlog.Info("server.shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server.forced_shutdown", zap.Error(err))
	}
	stopWorkers()

	zlog.Info("server.stopped")
}
