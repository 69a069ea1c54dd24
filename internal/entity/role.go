package entity

import "fmt"

// Role is the closed set of account roles. Authorization rules switch
// exhaustively over these three values.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a raw role string coming from a request payload.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleTeacher:
		return RoleTeacher, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role: %q", value)
	}
}

// IsValid reports whether the role is one of the three known variants.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	default:
		return false
	}
}

// ApprovedOnRegistration reports whether a self-registered account of this
// role starts approved. Students are usable immediately, teachers wait for
// an admin. Admin self-registration is rejected before this is consulted.
func (r Role) ApprovedOnRegistration() bool {
	return r == RoleStudent
}

func (r Role) String() string {
	return string(r)
}
