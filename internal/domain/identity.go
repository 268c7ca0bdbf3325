package domain

// Role separates administrators from voters
type Role string

const (
	RoleAdmin Role = "admin"
	RoleVoter Role = "voter"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleVoter
}

// Identity is the authenticated subject of a browser session
type Identity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Mobile string `json:"mobile,omitempty"`
	Role   Role   `json:"role"`
}

// AdminRegistration is the admin sign-up form
type AdminRegistration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// AdminCredentials is the admin sign-in form
type AdminCredentials struct {
	Email    string
	Password string
}
