package auth

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Principal is the authenticated caller. Identity itself is owned by the
// portal's auth service; this package only verifies the token it minted and
// reads the {id, role} pair out of it.
type Principal struct {
	ID   uint `json:"id"`
	Role Role `json:"role"`
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

func (p Principal) IsInstructor() bool {
	return p.Role == RoleTeacher || p.Role == RoleAdmin
}
