package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/benchwork/labjournal/backend/internal/config"
	"github.com/benchwork/labjournal/backend/internal/database"
	"github.com/benchwork/labjournal/backend/internal/logger"
	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/server"
	"github.com/benchwork/labjournal/backend/internal/services"
	"github.com/benchwork/labjournal/backend/internal/version"
)

func main() {
	// Setup logging with rotation
	logDir := "/app/data/logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// Fallback to local directory if /app/data fails (e.g. local dev)
		logDir = "data/logs"
		_ = os.MkdirAll(logDir, 0755)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "labjournal.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	// Log to both stdout and file
	mw := io.MultiWriter(os.Stdout, rotator)
	log.SetOutput(mw)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(cfg.Environment == "development", mw)

	// Handle CLI commands
	if len(os.Args) > 1 && os.Args[1] == "reset-password" {
		if len(os.Args) != 4 {
			log.Fatalf("Usage: %s reset-password <email> <new-password>", os.Args[0])
		}
		resetPassword(cfg, os.Args[2], os.Args[3])
		return
	}

	log.Printf("starting %s backend on version %s", version.Name, version.Full())

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		log.Fatalf("server setup: %v", err)
	}

	monitor := services.NewInventoryMonitor(
		services.NewChemicalService(db),
		services.NewNotificationService(db),
	)
	if err := monitor.Start(cfg.InventoryScanSchedule); err != nil {
		log.Fatalf("start inventory monitor: %v", err)
	}
	defer monitor.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("starting %s backend on :%s", version.Name, cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func resetPassword(cfg config.Config, email, newPassword string) {
	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}

	if err := user.SetPassword(newPassword); err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// Unlock account if locked
	user.LockedUntil = nil
	user.FailedLoginAttempts = 0

	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("failed to save user: %v", err)
	}

	log.Printf("Password updated successfully for user %s", email)
}
