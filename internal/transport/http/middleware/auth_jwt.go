package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"user-portal/internal/domain"
	resp "user-portal/internal/transport/http/response"
)

const KeyUser = "user"

// TokenResolver turns a bearer token into the current active user.
type TokenResolver interface {
	ResolveToken(ctx context.Context, raw string) (*domain.User, error)
}

// AuthJWT rejects the request unless the bearer token resolves to an active
// user, which is then available through CurrentUser.
func AuthJWT(r TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		scheme, raw, ok := strings.Cut(ah, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			c.Header("WWW-Authenticate", "Bearer")
			resp.Abort(c, resp.CodeUnauthorized, "")
			return
		}
		u, err := r.ResolveToken(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil {
			if domain.KindOf(err) == domain.KindAuthentication {
				c.Header("WWW-Authenticate", "Bearer")
			}
			_ = c.Error(err)
			resp.Fail(c, err)
			return
		}
		c.Set(KeyUser, u)
		c.Next()
	}
}

// RequireRoles lets the request through when the user holds any of roles.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			resp.Abort(c, resp.CodeUnauthorized, "")
			return
		}
		for _, r := range roles {
			if u.Roles.Has(r) {
				c.Next()
				return
			}
		}
		resp.Fail(c, domain.ErrForbidden)
	}
}

func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(KeyUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}
