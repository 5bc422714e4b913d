// Package policy decides who may mutate which user. Every function here is
// pure: it looks only at the two identities it is given.
package policy

import "user-portal/internal/domain"

type Reason string

const (
	ReasonNone          Reason = ""
	ReasonProtectedRole Reason = "protected_role"
	ReasonForbidden     Reason = "forbidden"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

var allow = Decision{Allowed: true}

func deny(r Reason) Decision { return Decision{Reason: r} }

// Err turns a denial into the matching domain error, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonProtectedRole {
		return domain.ErrProtectedRole
	}
	return domain.ErrForbidden
}

// CanDelete: superadmins are never deletable, not even by themselves.
// Otherwise self-delete is allowed and privileged actors may delete anyone.
func CanDelete(actor, target domain.Identity) Decision {
	if target.Roles.IsSuperadmin() {
		return deny(ReasonProtectedRole)
	}
	return selfOrPrivileged(actor, target)
}

// CanUpdate is CanDelete without the superadmin protection.
func CanUpdate(actor, target domain.Identity) Decision {
	return selfOrPrivileged(actor, target)
}

// CanManageRoles gates GrantAdmin/RevokeAdmin: only a superadmin may change
// roles, never its own and never another superadmin's.
func CanManageRoles(actor, target domain.Identity) Decision {
	if target.Roles.IsSuperadmin() {
		return deny(ReasonProtectedRole)
	}
	if !actor.Roles.IsSuperadmin() || actor.ID == target.ID {
		return deny(ReasonForbidden)
	}
	return allow
}

func selfOrPrivileged(actor, target domain.Identity) Decision {
	if actor.ID == target.ID {
		return allow
	}
	if actor.Roles.IsPrivileged() {
		return allow
	}
	return deny(ReasonForbidden)
}
