package categories

import "time"

// DefaultUnlockThreshold is the number of distinct image interactions a
// client needs in a category before the next one unlocks.
const DefaultUnlockThreshold = 50

// Category is a named grouping of images within a project, derived from the
// leaf folder names of an upload batch.
type Category struct {
	ID              string
	ProjectID       string
	Title           string
	UnlockThreshold int
	CreatedAt       time.Time
}
