// Package app wires config into the long-lived dependencies both binaries
// share: logger, database, cache, JWT codec and the route registry.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"user-portal/internal/core/auth"
	"user-portal/internal/core/cache"
	"user-portal/internal/core/config"
	"user-portal/internal/core/database"
	"user-portal/internal/core/logger"
	"user-portal/internal/feature/user"
	"user-portal/internal/repo"
	"user-portal/internal/service"
	"user-portal/internal/transport/http/handler"
	"user-portal/internal/transport/http/router"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Cache    *cache.Cache
	Auth     *service.AuthService
	Registry *router.Registry

	closers []func()
}

func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File.Enable {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		})
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

// New opens every dependency named in cfg. On error whatever was already
// opened is closed again.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	a := &App{Cfg: cfg, Registry: &router.Registry{}}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	var closeLog func()
	a.Log, closeLog = NewLogger(cfg)
	a.closers = append(a.closers, closeLog)
	a.closers = append(a.closers, logger.RedirectStdLog(a.Log, zapcore.InfoLevel))

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(a.Log.Named("gin"), zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(a.Log.Named("gin"), zapcore.ErrorLevel)

	a.DB, err = database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
		Log:                a.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	a.closers = append(a.closers, func() {
		if sqlDB, e := a.DB.DB(); e == nil {
			_ = sqlDB.Close()
		}
	})
	a.Log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err = a.DB.AutoMigrate(&user.UserModel{}); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		a.Log.Info("automigrate done")
	}

	if cfg.Redis.Enabled {
		a.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		a.closers = append(a.closers, func() { _ = a.Cache.Close() })
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err = a.Cache.Ping(pctx); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.Log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL(),
		Leeway: cfg.JWT.Leeway(),
	}
	a.Auth = service.NewAuthService(repo.NewUserRepo(a.DB), jwter)

	a.Registry.Register(handler.NewUserHandler(handler.Deps{
		DB:       a.DB,
		Log:      a.Log,
		Auth:     a.Auth,
		Cache:    a.Cache,
		CacheTTL: cfg.Redis.UserTTL(),
	}))
	return a, nil
}

func (a *App) Limits() router.Limits {
	return router.Limits{
		MaxBodyBytes:   a.Cfg.Limits.MaxBodyBytes,
		MaxInFlight:    int64(a.Cfg.Limits.MaxInFlight),
		RequestTimeout: a.Cfg.Limits.RequestTimeout(),
	}
}

// Close releases dependencies in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
