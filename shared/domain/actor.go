package domain

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Actor is the identity context of a request. A nil *Actor is an anonymous guest.
type Actor struct {
	Id    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

func (a *Actor) DisplayName() string {
	if a == nil || a.Name == "" {
		return "anon"
	}
	return a.Name
}
