package admins

import "time"

// AdminUser is a photographer account. Admins create projects and run the
// bulk upload pipeline.
type AdminUser struct {
	ID           string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
