package access

import "time"

// Grant roles.
const (
	RoleViewer = "viewer"
	RoleAdmin  = "admin"
)

// Grant lets an additional email address view a client's gallery. A given
// email appears at most once per client user.
type Grant struct {
	ID           string
	ClientUserID string
	Email        string
	Role         string
	GrantedBy    string
	CreatedAt    time.Time
}
