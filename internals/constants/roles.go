package constants

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// ValidRole reports whether s is an assignable account role.
func ValidRole(s string) bool {
	switch s {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}
