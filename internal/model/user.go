package model

// Role constants as issued by the backend.
const (
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// User is the authenticated identity returned by the login endpoint.
type User struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// IsManagerRole reports whether the role may use the dashboard. Enforced
// client-side on the login response in addition to whatever the backend does.
func IsManagerRole(role string) bool {
	return role == RoleManager || role == RoleAdmin
}
