package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"user-portal/internal/core/server"
	mdw "user-portal/internal/transport/http/middleware"
)

type Limits struct {
	MaxBodyBytes   int64
	MaxInFlight    int64
	RequestTimeout time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 1 << 20
	}
	if l.MaxInFlight <= 0 {
		l.MaxInFlight = 300
	}
	if l.RequestTimeout <= 0 {
		l.RequestTimeout = 10 * time.Second
	}
	return l
}

// newEngine is the chain both processes share.
func newEngine(l *zap.Logger, lim Limits) *gin.Engine {
	lim = lim.withDefaults()
	r := server.NewRouter(l,
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(),
	)
	r.Use(
		mdw.ConcurrencyLimit(lim.MaxInFlight),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.RequestTimeout),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ping": "pong"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// NewAPIEngine serves /api/v1. Modules mount their own public and
// authenticated routes.
func NewAPIEngine(l *zap.Logger, reg *Registry, lim Limits) *gin.Engine {
	r := newEngine(l, lim)
	reg.MountAllAPI(r.Group("/api/v1"))
	return r
}
