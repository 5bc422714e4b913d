package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"user-portal/internal/domain"
)

var (
	user       = domain.NewRoleSet(domain.RoleUser)
	admin      = domain.NewRoleSet(domain.RoleUser, domain.RoleAdmin)
	superadmin = domain.NewRoleSet(domain.RoleUser, domain.RoleSuperadmin)
	bareSuper  = domain.NewRoleSet(domain.RoleSuperadmin)
	bareAdmin  = domain.NewRoleSet(domain.RoleAdmin)
)

func id(uid string, roles domain.RoleSet) domain.Identity {
	return domain.Identity{ID: uid, Email: uid + "@example.com", Roles: roles}
}

func allRoleSets() []domain.RoleSet {
	return []domain.RoleSet{user, admin, superadmin, bareSuper, bareAdmin,
		domain.NewRoleSet(domain.RoleUser, domain.RoleAdmin, domain.RoleSuperadmin)}
}

func TestCanDelete_SuperadminTargetAlwaysProtected(t *testing.T) {
	for _, targetRoles := range allRoleSets() {
		if !targetRoles.IsSuperadmin() {
			continue
		}
		target := id("target", targetRoles)
		for _, actorRoles := range allRoleSets() {
			d := CanDelete(id("actor", actorRoles), target)
			assert.False(t, d.Allowed)
			assert.Equal(t, ReasonProtectedRole, d.Reason)
		}
		// even against itself
		d := CanDelete(target, target)
		assert.Equal(t, ReasonProtectedRole, d.Reason)
		assert.ErrorIs(t, d.Err(), domain.ErrProtectedRole)
	}
}

func TestCanDelete_SelfAllowed(t *testing.T) {
	for _, roles := range []domain.RoleSet{user, admin, bareAdmin} {
		u := id("self", roles)
		d := CanDelete(u, u)
		assert.True(t, d.Allowed)
		assert.NoError(t, d.Err())
	}
}

func TestCanDelete_UnprivilegedActorForbidden(t *testing.T) {
	for _, targetRoles := range []domain.RoleSet{user, admin, bareAdmin} {
		d := CanDelete(id("actor", user), id("other", targetRoles))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonForbidden, d.Reason)
		assert.ErrorIs(t, d.Err(), domain.ErrForbidden)
	}
}

func TestCanDelete_PrivilegedActor(t *testing.T) {
	tests := []struct {
		name   string
		actor  domain.RoleSet
		target domain.RoleSet
		want   Decision
	}{
		{"admin deletes user", admin, user, Decision{Allowed: true}},
		{"superadmin deletes user", superadmin, user, Decision{Allowed: true}},
		{"admin deletes admin", admin, admin, Decision{Allowed: true}},
		{"admin-only set deletes user", bareAdmin, user, Decision{Allowed: true}},
		{"admin deletes superadmin", admin, superadmin, Decision{Reason: ReasonProtectedRole}},
		{"user deletes admin", user, admin, Decision{Reason: ReasonForbidden}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDelete(id("a", tt.actor), id("b", tt.target)))
		})
	}
}

func TestCanUpdate(t *testing.T) {
	tests := []struct {
		name   string
		actor  domain.Identity
		target domain.Identity
		want   Decision
	}{
		{"self", id("a", user), id("a", user), Decision{Allowed: true}},
		{"superadmin self", id("a", superadmin), id("a", superadmin), Decision{Allowed: true}},
		{"admin updates superadmin", id("a", admin), id("b", superadmin), Decision{Allowed: true}},
		{"admin updates user", id("a", admin), id("b", user), Decision{Allowed: true}},
		{"user updates other user", id("a", user), id("b", user), Decision{Reason: ReasonForbidden}},
		{"user updates admin", id("a", user), id("b", admin), Decision{Reason: ReasonForbidden}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanUpdate(tt.actor, tt.target))
		})
	}
}

func TestCanManageRoles(t *testing.T) {
	tests := []struct {
		name   string
		actor  domain.Identity
		target domain.Identity
		want   Reason
		ok     bool
	}{
		{"superadmin on user", id("a", superadmin), id("b", user), ReasonNone, true},
		{"superadmin on admin", id("a", superadmin), id("b", admin), ReasonNone, true},
		{"superadmin on self", id("a", superadmin), id("a", superadmin), ReasonProtectedRole, false},
		{"superadmin on superadmin", id("a", superadmin), id("b", bareSuper), ReasonProtectedRole, false},
		{"admin on user", id("a", admin), id("b", user), ReasonForbidden, false},
		{"admin on self", id("a", admin), id("a", admin), ReasonForbidden, false},
		{"user on user", id("a", user), id("b", user), ReasonForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanManageRoles(tt.actor, tt.target)
			assert.Equal(t, tt.ok, d.Allowed)
			assert.Equal(t, tt.want, d.Reason)
		})
	}
}

func TestScenario_AdminDeletesUser_UserCannotDeleteAdmin(t *testing.T) {
	a := id("admin", admin)
	u := id("user", user)
	u2 := id("user2", user)

	assert.True(t, CanDelete(a, u).Allowed)
	d := CanDelete(u2, a)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonForbidden, d.Reason)
}
