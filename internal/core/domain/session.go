package domain

import "time"

// Session is the server-side authentication context of one client.
// Roles is a snapshot taken at login and is not refreshed afterwards.
type Session struct {
	ID        string
	UserID    string
	Roles     RoleSet
	CreatedAt time.Time
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Roles.Has(RoleAdmin)
}
