package session

// Role mirrors the server's numeric role encoding: 1 is admin, 2 is a
// regular user.
type Role int

const (
	RoleAdmin Role = 1
	RoleUser  Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "unknown"
	}
}

// User is the profile record cached next to the token.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Session is the authenticated identity held for the duration of a
// visit. Token and User are always set and cleared together; user data
// must never be trusted while Token is empty.
type Session struct {
	Token string
	User  User
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}
