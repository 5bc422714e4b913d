package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-portal/internal/core/cache"
	"user-portal/internal/domain"
	"user-portal/internal/repo"
	"user-portal/internal/service"
	"user-portal/internal/transport/http/ez"
	mdw "user-portal/internal/transport/http/middleware"
)

type Deps struct {
	DB       *gorm.DB
	Log      *zap.Logger
	Auth     *service.AuthService
	Cache    *cache.Cache // nil disables caching
	CacheTTL time.Duration
}

// UserHandler mounts the user endpoints on both processes.
type UserHandler struct {
	d Deps
}

func NewUserHandler(d Deps) *UserHandler { return &UserHandler{d: d} }

func (h *UserHandler) Priority() int { return 10 }

// users builds a service over the request's db handle, so every store call
// of one request shares its transaction. Cache entries are dropped only
// after that transaction commits.
func (h *UserHandler) users(c *gin.Context, db *gorm.DB) *service.UserService {
	return service.NewUserService(repo.NewUserRepo(db),
		service.WithCache(h.d.Cache, h.d.CacheTTL),
		service.WithLogger(h.d.Log),
		service.WithAfterCommit(func(fn func()) { ez.AfterCommit(c, fn) }),
	)
}

type UserView struct {
	UserID   string         `json:"user_id"`
	Name     string         `json:"name"`
	Surname  string         `json:"surname"`
	Email    string         `json:"email"`
	IsActive bool           `json:"is_active"`
	Roles    domain.RoleSet `json:"roles"`
}

func viewOf(u *domain.User) UserView {
	return UserView{
		UserID:   u.ID,
		Name:     u.Name,
		Surname:  u.Surname,
		Email:    u.Email,
		IsActive: u.IsActive,
		Roles:    u.Roles,
	}
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updatedOut struct {
	UpdatedUserID string `json:"updated_user_id"`
}

type deletedOut struct {
	DeletedUserID string `json:"deleted_user_id"`
}

type none struct{}

func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	public := ez.New(api, h.d.DB, h.d.Log)
	authed := ez.New(api.Group("", mdw.AuthJWT(h.d.Auth)), h.d.DB, h.d.Log)

	ez.RegisterAction(public, ez.Action[loginIn, service.Token]{
		Method: http.MethodPost,
		Path:   "/login/token",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, _ domain.Identity, in *loginIn) (service.Token, error) {
			return h.d.Auth.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	ez.RegisterAction(public, ez.Action[domain.Registration, UserView]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, db *gorm.DB, _ domain.Identity, in *domain.Registration) (UserView, error) {
			u, err := h.users(c, db).Create(c.Request.Context(), *in)
			if err != nil {
				return UserView{}, err
			}
			return viewOf(u), nil
		},
	})

	ez.RegisterAction(authed, ez.Action[none, UserView]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ domain.Identity, _ *none) (UserView, error) {
			u, _ := mdw.CurrentUser(c)
			return viewOf(u), nil
		},
	})

	ez.RegisterAction(authed, ez.Action[none, UserView]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, db *gorm.DB, _ domain.Identity, _ *none) (UserView, error) {
			u, err := h.users(c, db).Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				return UserView{}, err
			}
			return viewOf(u), nil
		},
	})

	ez.RegisterAction(authed, ez.Action[domain.PartialUser, updatedOut]{
		Method: http.MethodPatch,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, actor domain.Identity, in *domain.PartialUser) (updatedOut, error) {
			id, err := h.users(c, tx).Update(c.Request.Context(), actor, c.Param("id"), *in)
			return updatedOut{UpdatedUserID: id}, err
		},
	})

	ez.RegisterAction(authed, ez.Action[none, deletedOut]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, actor domain.Identity, _ *none) (deletedOut, error) {
			id, err := h.users(c, tx).Delete(c.Request.Context(), actor, c.Param("id"))
			return deletedOut{DeletedUserID: id}, err
		},
	})
}

type listIn struct {
	Offset       int    `form:"offset,default=0"`
	Limit        int    `form:"limit,default=20"`
	Q            string `form:"q"`
	WithInactive bool   `form:"with_inactive"`
}

type listOut struct {
	Total int64      `json:"total"`
	Items []UserView `json:"items"`
}

// MountAdmin expects the group to already run AuthJWT and the admin role
// check; role management narrows that to superadmins in the policy.
func (h *UserHandler) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin, h.d.DB, h.d.Log)
	privileged := []domain.Role{domain.RoleAdmin, domain.RoleSuperadmin}

	ez.RegisterAction(e, ez.Action[listIn, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  privileged,
		Handler: func(c *gin.Context, db *gorm.DB, actor domain.Identity, in *listIn) (listOut, error) {
			users, total, err := h.users(c, db).List(c.Request.Context(), actor, domain.ListQuery{
				Offset:       in.Offset,
				Limit:        in.Limit,
				Search:       in.Q,
				WithInactive: in.WithInactive,
			})
			if err != nil {
				return listOut{}, err
			}
			out := listOut{Total: total, Items: make([]UserView, 0, len(users))}
			for i := range users {
				out.Items = append(out.Items, viewOf(&users[i]))
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[none, updatedOut]{
		Method: http.MethodPost,
		Path:   "/users/:id/admin",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleSuperadmin},
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, actor domain.Identity, _ *none) (updatedOut, error) {
			id, err := h.users(c, tx).GrantAdmin(c.Request.Context(), actor, c.Param("id"))
			return updatedOut{UpdatedUserID: id}, err
		},
	})

	ez.RegisterAction(e, ez.Action[none, updatedOut]{
		Method: http.MethodDelete,
		Path:   "/users/:id/admin",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleSuperadmin},
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, actor domain.Identity, _ *none) (updatedOut, error) {
			id, err := h.users(c, tx).RevokeAdmin(c.Request.Context(), actor, c.Param("id"))
			return updatedOut{UpdatedUserID: id}, err
		},
	})
}
