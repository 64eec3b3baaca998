package entities

import (
	"github.com/google/uuid"
)

// Principal is the authenticated staff user behind a request, as asserted by
// the gym backend access token.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	GymID  uuid.UUID `json:"gym_id"`
	Role   UserRole  `json:"role"`
	// Token is forwarded verbatim to the gym backend.
	Token string `json:"-"`
}

// UserRole defines staff roles issued by the gym backend
type UserRole string

const (
	RoleOwner        UserRole = "owner"
	RoleManager      UserRole = "manager"
	RoleSalesperson  UserRole = "salesperson"
	RoleReceptionist UserRole = "receptionist"
)

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleSalesperson, RoleReceptionist:
		return true
	}
	return false
}

// CanViewDashboards reports whether the role may read BI dashboards.
func (r UserRole) CanViewDashboards() bool {
	return r == RoleOwner || r == RoleManager
}
