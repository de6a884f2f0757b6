package domain

// Role is the capability tier assigned to every profile. Checks are exact
// string matches against this set; there is no hierarchy (admin does not
// implicitly satisfy a manager check).
type Role string

const (
	RolePassenger Role = "passenger"
	RoleManager   Role = "manager"
	RoleDriver    Role = "driver"
	RoleAdmin     Role = "admin"
)

// ParseRole validates a raw role string against the enumerated set. It is the
// single source of truth for every component that assigns or checks a role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePassenger, RoleManager, RoleDriver, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string { return string(r) }
