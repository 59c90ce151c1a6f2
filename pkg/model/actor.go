package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor is the authenticated caller as asserted by the upstream identity provider.
type Actor struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may act on a resource owned by ownerID.
func (a Actor) CanAccess(ownerID string) bool {
	return a.IsAdmin() || (a.ID != "" && a.ID == ownerID)
}
