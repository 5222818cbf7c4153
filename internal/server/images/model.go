package images

import "time"

// Image is a verified, persisted photo. Rows are created only after the
// completion reconciler confirms the object exists in storage.
type Image struct {
	ID           string
	CategoryID   string
	ProjectID    string
	StorageKey   string
	OriginalName string
	FolderPath   string
	Size         int64
	UploadedAt   time.Time
}
