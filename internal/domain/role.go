package domain

import (
	"encoding/json"
	"fmt"
)

// Role is one of the three portal roles.
type Role uint8

const (
	RoleUser Role = iota
	RoleAdmin
	RoleSuperadmin
)

var roleNames = [...]string{
	RoleUser:       "ROLE_PORTAL_USER",
	RoleAdmin:      "ROLE_PORTAL_ADMIN",
	RoleSuperadmin: "ROLE_PORTAL_SUPERADMIN",
}

// String returns the storage form of the role.
func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", r)
}

func ParseRole(s string) (Role, error) {
	for i, n := range roleNames {
		if n == s {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// RoleSet is a bitset of roles. The zero value is empty and is never stored.
type RoleSet uint8

func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s = s.With(r)
	}
	return s
}

// ParseRoles maps storage strings back to a set. Duplicates collapse.
func ParseRoles(names []string) (RoleSet, error) {
	var s RoleSet
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return 0, err
		}
		s = s.With(r)
	}
	if s.IsEmpty() {
		return 0, fmt.Errorf("empty role set")
	}
	return s, nil
}

func (s RoleSet) Has(r Role) bool        { return s&(1<<r) != 0 }
func (s RoleSet) With(r Role) RoleSet    { return s | 1<<r }
func (s RoleSet) Without(r Role) RoleSet { return s &^ (1 << r) }
func (s RoleSet) IsEmpty() bool          { return s == 0 }

func (s RoleSet) IsAdmin() bool      { return s.Has(RoleAdmin) }
func (s RoleSet) IsSuperadmin() bool { return s.Has(RoleSuperadmin) }

// IsPrivileged reports whether the set carries ADMIN or SUPERADMIN.
func (s RoleSet) IsPrivileged() bool { return s.IsAdmin() || s.IsSuperadmin() }

// Names returns the storage strings in role order.
func (s RoleSet) Names() []string {
	out := make([]string, 0, len(roleNames))
	for i := range roleNames {
		if s.Has(Role(i)) {
			out = append(out, roleNames[i])
		}
	}
	return out
}

func (s RoleSet) MarshalJSON() ([]byte, error) { return json.Marshal(s.Names()) }

func (s *RoleSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	parsed, err := ParseRoles(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// GrantAdmin returns roles ∪ {ADMIN}.
func GrantAdmin(roles RoleSet) RoleSet { return roles.With(RoleAdmin) }

// RevokeAdmin returns roles \ {ADMIN}; a set left empty falls back to {USER}.
func RevokeAdmin(roles RoleSet) RoleSet {
	out := roles.Without(RoleAdmin)
	if out.IsEmpty() {
		out = NewRoleSet(RoleUser)
	}
	return out
}
