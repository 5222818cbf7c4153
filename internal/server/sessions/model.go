package sessions

import "time"

// UploadSession is the persisted record of one batch-upload round trip.
// It gives the completion endpoint a server-side authority to check claimed
// session ids against, instead of trusting whatever id the client sends.
type UploadSession struct {
	// ID is the opaque batch namespace, "<unix-millis>_<uuid prefix>".
	ID         string
	ProjectID  string
	TotalFiles int
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the session can no longer accept completion
// reports at the given instant.
func (s *UploadSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
