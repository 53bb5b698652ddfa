package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/bridgetunes-raffle/api/routes"
	"github.com/ArowuTest/bridgetunes-raffle/internal/config"
	"github.com/ArowuTest/bridgetunes-raffle/internal/handlers"
	"github.com/ArowuTest/bridgetunes-raffle/internal/middleware"
	"github.com/ArowuTest/bridgetunes-raffle/internal/repositories"
	"github.com/ArowuTest/bridgetunes-raffle/internal/repositories/file"
	mongorepo "github.com/ArowuTest/bridgetunes-raffle/internal/repositories/mongodb"
	"github.com/ArowuTest/bridgetunes-raffle/internal/services"
	"github.com/ArowuTest/bridgetunes-raffle/internal/utils"
	pkgjwt "github.com/ArowuTest/bridgetunes-raffle/pkg/jwt"
	"github.com/ArowuTest/bridgetunes-raffle/pkg/mongodb"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)
	gin.SetMode(cfg.Server.Mode)

	// Audit logs: the CSV files are authoritative, MongoDB is an optional mirror
	var auditRepo repositories.AuditRepository = file.NewAuditRepository(cfg.Storage.DrawLogFile, cfg.Storage.DeleteLogFile)
	var mirror *mongorepo.AuditMirror
	var mongoClient *mongodb.Client
	if cfg.MongoDB.URI != "" {
		mongoClient, err = mongodb.NewClient(cfg.MongoDB.URI, 10*time.Second)
		if err != nil {
			slog.Warn("MongoDB unavailable, audit mirror disabled", "error", err)
		} else {
			mirror = mongorepo.NewAuditMirror(mongoClient.Database(cfg.MongoDB.Database), cfg.MongoDB.AuditCollection, cfg.MongoDB.BufferSize)
			mirror.Start()
			auditRepo = repositories.NewMultiAuditRepository(auditRepo, mirror)
			slog.Info("Audit mirror enabled", "database", cfg.MongoDB.Database, "collection", cfg.MongoDB.AuditCollection)
		}
	}

	limitRepo := file.NewGiftLimitRepository(cfg.Storage.LimitsFile)
	drawService := services.NewDrawService(limitRepo, auditRepo, utils.NewCryptoSampler())
	drawService.LoadGiftLimits(context.Background())

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		// sessions do not survive a restart without a configured secret
		secret, err = utils.GenerateRandomString(32)
		if err != nil {
			slog.Error("Failed to generate session secret", "error", err)
			os.Exit(1)
		}
	}
	tokens := pkgjwt.NewSessionTokenService(secret, time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute)
	authService, err := services.NewAuthService(cfg.Auth.AccessCode, tokens)
	if err != nil {
		slog.Error("Failed to initialise access gate", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	loginLimiter := middleware.NewLimiterStore(cfg.Auth.LoginRatePerMinute, 15*time.Minute)
	loginLimiter.StartJanitor(ctx, 2*time.Minute)

	importer := utils.NewRosterImporter(cfg.Upload.AllowedExtensions, cfg.Upload.MaxBytes)
	handlerDeps := routes.HandlerDependencies{
		AuthService:   authService,
		AuthHandler:   handlers.NewAuthHandler(authService, cfg.Server.Mode == gin.ReleaseMode),
		DrawHandler:   handlers.NewDrawHandler(drawService),
		RosterHandler: handlers.NewRosterHandler(drawService, importer, cfg.Storage.UploadDir),
		LoginLimiter:  loginLimiter,
	}
	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Server starting", "port", cfg.Server.Port, "accessGate", authService.Enabled())

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	if mirror != nil {
		if err := mirror.Close(shutdownCtx); err != nil {
			slog.Warn("Audit mirror did not drain", "error", err)
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			slog.Warn("Error disconnecting from MongoDB", "error", err)
		}
	}

	slog.Info("Server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
