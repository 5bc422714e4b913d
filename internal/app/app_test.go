package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-portal/internal/core/config"
	"user-portal/internal/transport/http/router"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := &config.Config{}
	cfg.Log.Level = "error"
	cfg.JWT = config.JWT{Secret: "s", Issuer: "user-portal", AccessTokenTTLMin: 5}
	cfg.DB = config.DB{Driver: "sqlite", DSN: "file:app_test?mode=memory&cache=shared", MaxOpenConns: 1, AutoMigrate: true, LogLevel: "silent"}
	cfg.Redis = config.Redis{Enabled: true, Addr: mr.Addr(), UserTTLSec: 30}
	return cfg
}

func TestNew_WiresEverything(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Cache)
	assert.True(t, a.DB.Migrator().HasTable("users"))

	r := router.NewAPIEngine(a.Log, a.Registry, a.Limits())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNew_BadDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.Driver = "oracle"
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_RedisDown(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.DSN = "file:app_redis_down?mode=memory&cache=shared"
	mr := miniredis.RunT(t)
	cfg.Redis.Addr = mr.Addr()
	mr.Close()

	a, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, a)
	assert.ErrorContains(t, err, "redis")
}
