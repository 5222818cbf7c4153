package clients

import "time"

// ClientUser is the couple-side account for one project. Clients
// authenticate with a project PIN rather than a username/password pair.
type ClientUser struct {
	ID        string
	ProjectID string
	// PinDigest is the SHA-256 digest of the PIN. A deterministic digest
	// (not bcrypt) because sign-in looks the user up by PIN alone.
	PinDigest string
	CreatedAt time.Time
}

// Interaction records that a client clicked/selected an image within a
// category. The per-category distinct count feeds the unlock policy.
type Interaction struct {
	ClientUserID string
	CategoryID   string
	ImageID      string
	CreatedAt    time.Time
}
