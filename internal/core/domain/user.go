package domain

import (
	"strings"
	"time"
)

// Role is a capability granted to a user. Roles are stored as strings but
// handled in memory as bits of a RoleSet so membership checks cannot be
// misspelled.
type Role uint8

const (
	RoleUser Role = 1 << iota
	RoleAdmin
)

// ReservedUsername is provisioned out of band and can never be claimed through signup.
const ReservedUsername = "admin"

var roleNames = map[Role]string{
	RoleUser:  "user",
	RoleAdmin: "admin",
}

// String returns the stored name of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRole maps a stored role name to its Role. ok is false for unknown names.
func ParseRole(s string) (Role, bool) {
	for r, name := range roleNames {
		if name == s {
			return r, true
		}
	}
	return 0, false
}

// RoleSet is a small set of roles.
type RoleSet uint8

// NewRoleSet builds a set holding the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= RoleSet(r)
	}
	return s
}

// Has reports whether r is a member of the set.
func (s RoleSet) Has(r Role) bool {
	return s&RoleSet(r) != 0
}

// Strings returns the role names in a stable order (user before admin).
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(roleNames))
	for _, r := range []Role{RoleUser, RoleAdmin} {
		if s.Has(r) {
			out = append(out, r.String())
		}
	}
	return out
}

// RoleSetFromStrings decodes stored role names. Unknown names are dropped and
// RoleUser is always present, since every account is at least a user.
func RoleSetFromStrings(names []string) RoleSet {
	s := NewRoleSet(RoleUser)
	for _, n := range names {
		if r, ok := ParseRole(n); ok {
			s |= RoleSet(r)
		}
	}
	return s
}

// User models a registered account. ID doubles as the username.
type User struct {
	ID           string    `json:"id"`
	PasswordHash string    `json:"-"`
	Roles        RoleSet   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsReservedUsername reports whether name collides with the provisioned administrator.
func IsReservedUsername(name string) bool {
	return strings.EqualFold(name, ReservedUsername)
}
