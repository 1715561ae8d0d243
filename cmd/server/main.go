package main

import (
	"Inventory/internal/config"
	"Inventory/internal/handlers"
	"Inventory/internal/middleware"
	"Inventory/internal/repo"
	"Inventory/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg := config.NewConfig()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Debugw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	defer func() {
		if err := repo.CloseDB(gormDB); err != nil {
			sugar.Errorw("failed to close database", "error", err)
		}
	}()

	photoRepo, err := repo.NewPhotoRepository(cfg.UploadDir())
	if err != nil {
		sugar.Fatalw("failed to initialize photo storage", "dir", cfg.UploadDir(), "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	deviceRepo := repo.NewDeviceRepository(gormDB)

	userService := service.NewUserService(userRepo, cfg.BcryptCost)
	deviceService := service.NewDeviceService(deviceRepo, photoRepo, sugar)
	checkoutService := service.NewCheckoutService(deviceRepo, userService, deviceService)

	h := handlers.NewHandler(userService, deviceService, checkoutService, sugar, cfg)

	srv := &http.Server{
		Addr:    cfg.BaseURL,
		Handler: h.Router,
	}

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"DatabaseDSN", cfg.DatabaseDSN,
		"UploadDir", cfg.UploadDir(),
		"PhotoMaxSizeMB", cfg.PhotoMaxSizeMB,
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed", "error", err)
		}
	}()

	sugar.Infow("Starting server", "addr", cfg.BaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Errorw("Server failed", "error", err)
		return
	}
	sugar.Infow("Server stopped")
}

// newLogger собирает zap-логгер: development-консоль по умолчанию, JSON при LOG_FORMAT=json.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg := zap.NewDevelopmentConfig()
	if cfg.LogFormat == "json" {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
