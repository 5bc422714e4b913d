package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"user-portal/internal/core/cache"
	"user-portal/internal/domain"
	"user-portal/internal/policy"
	"user-portal/internal/validate"
	"user-portal/pkg/utils"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// UserService runs one user operation end to end: validate, load the target,
// ask the policy, then write. It is cheap to build, one per request.
type UserService struct {
	users       domain.UserRepository
	cache       *cache.Cache
	cacheTTL    time.Duration
	afterCommit func(func())
	log         *zap.Logger
}

type Option func(*UserService)

// WithCache enables the read-through cache for Get. Mutations never read it,
// they only drop the entry of the row they touched.
func WithCache(c *cache.Cache, ttl time.Duration) Option {
	return func(s *UserService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithAfterCommit defers cache invalidation to hook, which must run the
// function once the surrounding transaction has committed. Without it the
// entry is dropped right after the write.
func WithAfterCommit(hook func(func())) Option {
	return func(s *UserService) { s.afterCommit = hook }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *UserService) {
		if l != nil {
			s.log = l
		}
	}
}

func NewUserService(users domain.UserRepository, opts ...Option) *UserService {
	s := &UserService{users: users, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func userKey(id string) string { return "user:" + id }

func (s *UserService) Create(ctx context.Context, in domain.Registration) (u *domain.User, err error) {
	defer func() { record("create", err) }()

	reg, err := validate.Registration(in)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}
	u = &domain.User{
		ID:           utils.NewID(),
		Name:         reg.Name,
		Surname:      reg.Surname,
		Email:        reg.Email,
		PasswordHash: hash,
		IsActive:     true,
		Roles:        domain.NewRoleSet(domain.RoleUser),
	}
	if err = s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Get returns an active user. The result may come from the cache and then
// carries no password hash.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if !utils.IsID(id) {
		return nil, domain.ErrInvalidID
	}
	if s.cache == nil {
		return s.users.FindActiveByID(ctx, id)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, userKey(id), s.cacheTTL, func(ctx context.Context) (*domain.User, error) {
		return s.users.FindActiveByID(ctx, id)
	})
}

func (s *UserService) Update(ctx context.Context, actor domain.Identity, id string, patch domain.PartialUser) (_ string, err error) {
	defer func() { record("update", err) }()

	if !utils.IsID(id) {
		return "", domain.ErrInvalidID
	}
	fields, err := validate.PartialUpdate(patch)
	if err != nil {
		return "", err
	}
	target, err := s.users.FindActiveByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err = policy.CanUpdate(actor, target.Identity()).Err(); err != nil {
		return "", err
	}
	updated, err := s.users.ApplyPartialUpdate(ctx, id, fields)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Identity, id string) (_ string, err error) {
	defer func() { record("delete", err) }()

	if !utils.IsID(id) {
		return "", domain.ErrInvalidID
	}
	target, err := s.users.FindActiveByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err = policy.CanDelete(actor, target.Identity()).Err(); err != nil {
		return "", err
	}
	deleted, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, id)
	return deleted, nil
}

func (s *UserService) GrantAdmin(ctx context.Context, actor domain.Identity, id string) (_ string, err error) {
	defer func() { record("grant_admin", err) }()
	return s.changeRoles(ctx, actor, id, domain.GrantAdmin)
}

func (s *UserService) RevokeAdmin(ctx context.Context, actor domain.Identity, id string) (_ string, err error) {
	defer func() { record("revoke_admin", err) }()
	return s.changeRoles(ctx, actor, id, domain.RevokeAdmin)
}

func (s *UserService) changeRoles(ctx context.Context, actor domain.Identity, id string, change func(domain.RoleSet) domain.RoleSet) (string, error) {
	if !utils.IsID(id) {
		return "", domain.ErrInvalidID
	}
	target, err := s.users.FindActiveByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := policy.CanManageRoles(actor, target.Identity()).Err(); err != nil {
		return "", err
	}
	roles := change(target.Roles)
	if roles == target.Roles {
		return id, nil
	}
	updated, err := s.users.SetRoles(ctx, id, roles)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// List is for privileged actors only.
func (s *UserService) List(ctx context.Context, actor domain.Identity, q domain.ListQuery) ([]domain.User, int64, error) {
	if !actor.Roles.IsPrivileged() {
		return nil, 0, domain.ErrForbidden
	}
	if q.Limit <= 0 || q.Limit > maxListLimit {
		q.Limit = defaultListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return s.users.List(ctx, q)
}

func (s *UserService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	drop := func() {
		// the write already happened; a stale entry only lives until its TTL
		if err := s.cache.Delete(ctx, userKey(id)); err != nil {
			s.log.Warn("cache invalidate failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	if s.afterCommit != nil {
		s.afterCommit(drop)
		return
	}
	drop()
}
