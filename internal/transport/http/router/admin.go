package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-portal/internal/domain"
	mdw "user-portal/internal/transport/http/middleware"
)

// NewAdminEngine serves /admin/v1; every route requires an ADMIN or
// SUPERADMIN caller.
func NewAdminEngine(l *zap.Logger, reg *Registry, auth mdw.TokenResolver, lim Limits) *gin.Engine {
	r := newEngine(l, lim)

	admin := r.Group("/admin/v1")
	admin.Use(
		mdw.AuthJWT(auth),
		mdw.RequireRoles(domain.RoleAdmin, domain.RoleSuperadmin),
	)
	reg.MountAllAdmin(admin)
	return r
}
