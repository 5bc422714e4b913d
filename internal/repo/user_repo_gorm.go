package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"user-portal/internal/domain"
	"user-portal/internal/feature/user"
)

// UserRepo is the gorm identity store. Every mutation is a single conditional
// UPDATE on an active row, so two racing mutations of one id cannot both win.
type UserRepo struct{ db *gorm.DB }

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return storeErr(err)
	}
	u.CreatedAt, u.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *UserRepo) FindActiveByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findActive(ctx, "user_id = ?", id)
}

func (r *UserRepo) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findActive(ctx, "email = ?", email)
}

func (r *UserRepo) findActive(ctx context.Context, cond string, arg string) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Where("is_active = ?", true).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	u, err := m.ToDomain()
	if err != nil {
		return nil, domain.Wrap(domain.ErrStoreUnavailable, err)
	}
	return u, nil
}

func (r *UserRepo) ApplyPartialUpdate(ctx context.Context, id string, fields domain.UserFields) (string, error) {
	if len(fields) == 0 {
		return "", domain.ErrEmptyUpdate
	}
	return r.updateActive(ctx, id, func(tx *gorm.DB) *gorm.DB {
		return tx.Updates(map[string]any(fields))
	})
}

func (r *UserRepo) SoftDelete(ctx context.Context, id string) (string, error) {
	return r.updateActive(ctx, id, func(tx *gorm.DB) *gorm.DB {
		return tx.Update("is_active", false)
	})
}

func (r *UserRepo) SetRoles(ctx context.Context, id string, roles domain.RoleSet) (string, error) {
	if roles.IsEmpty() {
		return "", domain.Wrap(domain.ErrInvalidInput, errors.New("empty role set"))
	}
	// struct form so the json serializer on Roles is applied
	return r.updateActive(ctx, id, func(tx *gorm.DB) *gorm.DB {
		return tx.Select("roles").Updates(&user.UserModel{Roles: roles.Names()})
	})
}

func (r *UserRepo) updateActive(ctx context.Context, id string, apply func(*gorm.DB) *gorm.DB) (string, error) {
	res := apply(r.db.WithContext(ctx).
		Model(&user.UserModel{}).
		Where("user_id = ? AND is_active = ?", id, true))
	if res.Error != nil {
		return "", storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (r *UserRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.User, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Model(&user.UserModel{})
		if !q.WithInactive {
			tx = tx.Where("is_active = ?", true)
		}
		if s := strings.TrimSpace(q.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			tx = tx.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ? OR LOWER(surname) LIKE ?", like, like, like)
		}
		return tx
	}

	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	db := r.db.WithContext(ctx)
	var total int64
	if err := db.Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, storeErr(err)
	}
	var rows []user.UserModel
	if err := db.Scopes(scope).
		Order("created_at desc").Order("user_id").
		Offset(q.Offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, storeErr(err)
	}

	out := make([]domain.User, 0, len(rows))
	for i := range rows {
		u, err := rows[i].ToDomain()
		if err != nil {
			return nil, 0, domain.Wrap(domain.ErrStoreUnavailable, err)
		}
		out = append(out, *u)
	}
	return out, total, nil
}

func storeErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey) || isDupKey(err):
		return domain.Wrap(domain.ErrDuplicateEmail, err)
	case isDataErr(err):
		return domain.Wrap(domain.ErrInvalidInput, err)
	}
	return domain.Wrap(domain.ErrStoreUnavailable, err)
}

// isDupKey catches drivers that do not translate unique violations.
func isDupKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

// isDataErr reports a value the store rejected on its own (too long, out of
// range, null, check). Retrying will not help, so it is not an outage.
func isDataErr(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 22 data exception, 23502 not null, 23514 check
		return strings.HasPrefix(pgErr.Code, "22") || pgErr.Code == "23502" || pgErr.Code == "23514"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1048, 1264, 1366, 1406, 3819:
			return true
		}
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not null constraint failed") ||
		strings.Contains(msg, "check constraint failed")
}
