// Package ez registers typed JSON actions on a gin group: bind, authorize,
// run in an optional per-request transaction, map errors to the envelope.
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-portal/internal/domain"
	mdw "user-portal/internal/transport/http/middleware"
	resp "user-portal/internal/transport/http/response"
)

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // handler reads c.Param itself
)

// EZ is a route group plus what every action on it needs.
type EZ struct {
	g   *gin.RouterGroup
	db  *gorm.DB
	log *zap.Logger
}

func New(g *gin.RouterGroup, db *gorm.DB, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, db: db, log: l}
}

const keyAfterCommit = "ez.afterCommit"

// AfterCommit queues fn to run once the action succeeded, after its
// transaction committed. Failed actions drop the queue.
func AfterCommit(c *gin.Context, fn func()) {
	var fns []func()
	if v, ok := c.Get(keyAfterCommit); ok {
		fns = v.([]func())
	}
	c.Set(keyAfterCommit, append(fns, fn))
}

func runAfterCommit(c *gin.Context) {
	v, ok := c.Get(keyAfterCommit)
	if !ok {
		return
	}
	for _, fn := range v.([]func()) {
		fn()
	}
}

// Action describes one endpoint: I is the bound input, O the response data.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	Auth   bool          // requires a user resolved by middleware.AuthJWT
	Roles  []domain.Role // any of, checked after Auth
	UseTx  bool          // run Handler inside one gorm transaction
	// Handler gets a db scoped to this request (the tx when UseTx) and the
	// caller, zero when Auth is false and nobody is logged in.
	Handler func(c *gin.Context, db *gorm.DB, actor domain.Identity, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var actor domain.Identity
		if u, ok := mdw.CurrentUser(c); ok {
			actor = u.Identity()
		}
		if a.Auth {
			if actor.ID == "" {
				c.Header("WWW-Authenticate", "Bearer")
				resp.Abort(c, resp.CodeUnauthorized, "")
				return
			}
			if len(a.Roles) > 0 && !hasAny(actor.Roles, a.Roles) {
				resp.Fail(c, domain.ErrForbidden)
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			_ = c.Error(bindErr).SetType(gin.ErrorTypeBind)
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				resp.Abort(c, resp.CodeRequestTooLarge, "request body too large")
				return
			}
			resp.Fail(c, domain.Wrap(domain.ErrInvalidInput, bindErr))
			return
		}

		db := e.db.WithContext(c.Request.Context())
		var out O
		var err error
		if a.UseTx {
			err = db.Transaction(func(tx *gorm.DB) error {
				var herr error
				out, herr = a.Handler(c, tx, actor, &in)
				return herr
			})
		} else {
			out, err = a.Handler(c, db, actor, &in)
		}

		if err != nil {
			_ = c.Error(err)
			r := resp.FromError(err)
			if r.Code >= resp.CodeServerError {
				e.log.Error("action failed",
					zap.String("rid", mdw.RequestIDFrom(c)),
					zap.String("route", c.FullPath()),
					zap.Error(err),
				)
			}
			c.AbortWithStatusJSON(resp.Status(r.Code), r)
			return
		}
		runAfterCommit(c)
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func hasAny(have domain.RoleSet, want []domain.Role) bool {
	for _, r := range want {
		if have.Has(r) {
			return true
		}
	}
	return false
}
