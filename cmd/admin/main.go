package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"user-portal/internal/app"
	"user-portal/internal/core/config"
	"user-portal/internal/core/server"
	"user-portal/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()

	r := router.NewAdminEngine(a.Log, a.Registry, a.Auth, a.Limits())

	// the admin port is meant to stay internal; shorter timeouts than the api
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second, a.Log)
	a.Log.Info("admin api starting", zap.String("addr", addr), zap.String("env", cfg.App.Env))

	if err := server.Run(ctx, srv, a.Log, 10*time.Second); err != nil {
		a.Log.Error("admin api stopped with error", zap.Error(err))
		return
	}
	a.Log.Info("admin api stopped gracefully")
}
