package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/Dhanush032/Smart-Shopping/internal/app"
	"github.com/Dhanush032/Smart-Shopping/internal/config"
	"github.com/Dhanush032/Smart-Shopping/internal/logger"
	"github.com/Dhanush032/Smart-Shopping/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
)

func main() {
	printStartupBanner()

	// pull .env into the environment before viper reads it
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.JWT.SecretKey) || isWeakSecret(cfg.UserJWT.SecretKey) {
			stdLog.Fatalf("JWT secrets are weak or still the defaults, configure strong random keys before release")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) || isWeakSecret(cfg.UserJWT.SecretKey) {
		stdLog.Printf("warning: JWT secrets are weak or still the defaults, replace them before going to production")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("database init failed: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("database migration failed: %v", err)
	}

	defaultAdminUser := os.Getenv("SMARTSHOP_DEFAULT_ADMIN_USERNAME")
	defaultAdminPass := os.Getenv("SMARTSHOP_DEFAULT_ADMIN_PASSWORD")
	if cfg.Server.Mode == "release" && defaultAdminPass == "" {
		stdLog.Printf("warning: SMARTSHOP_DEFAULT_ADMIN_PASSWORD not set, skipping default admin bootstrap")
	} else if err := models.InitDefaultAdmin(defaultAdminUser, defaultAdminPass); err != nil {
		stdLog.Printf("warning: default admin bootstrap failed: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "run mode: all (default), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("service run failed: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + "  ____                       _     ____  _                       _             " + ansiReset)
	fmt.Println(ansiCyan + " / ___| _ __ ___   __ _ _ __| |_  / ___|| |__   ___  _ __  _ __ (_)_ __   __ _ " + ansiReset)
	fmt.Println(ansiCyan + " \\___ \\| '_ ` _ \\ / _` | '__| __| \\___ \\| '_ \\ / _ \\| '_ \\| '_ \\| | '_ \\ / _` |" + ansiReset)
	fmt.Println(ansiCyan + "  ___) | | | | | | (_| | |  | |_   ___) | | | | (_) | |_) | |_) | | | | | (_| |" + ansiReset)
	fmt.Println(ansiCyan + " |____/|_| |_| |_|\\__,_|_|   \\__| |____/|_| |_|\\___/| .__/| .__/|_|_| |_|\\__, |" + ansiReset)
	fmt.Println(ansiCyan + "                                                    |_|   |_|             |___/ " + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Smart-Shopping API" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
