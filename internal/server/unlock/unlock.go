// Package unlock implements the progressive gallery reveal: a client's
// categories open one after another as the client interacts with enough
// images in the already-open ones.
package unlock

import (
	"sort"

	"github.com/lumeshot/lumeshot/internal/server/categories"
)

// Category states.
const (
	StateUnlocked = "unlocked"
	StateLocked   = "locked"
)

// CategoryStatus is the client-facing unlock state of one category.
type CategoryStatus struct {
	CategoryID   string `json:"categoryId"`
	Title        string `json:"title"`
	State        string `json:"state"`
	Threshold    int    `json:"threshold"`
	Interactions int    `json:"interactions"`
	// Remaining is how many more distinct interactions open the next
	// category. Zero once satisfied.
	Remaining int `json:"remaining"`
}

// Evaluate orders the project's categories by creation time and walks them
// front to back: the first category is always open, and each further one
// opens only when the previous category's interaction count has reached its
// unlock threshold. A non-positive threshold never gates.
func Evaluate(cats []*categories.Category, counts map[string]int) []*CategoryStatus {
	ordered := make([]*categories.Category, len(cats))
	copy(ordered, cats)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	statuses := make([]*CategoryStatus, 0, len(ordered))
	open := true
	for _, c := range ordered {
		st := &CategoryStatus{
			CategoryID:   c.ID,
			Title:        c.Title,
			Threshold:    c.UnlockThreshold,
			Interactions: counts[c.ID],
			State:        StateLocked,
		}
		if open {
			st.State = StateUnlocked
		}

		satisfied := c.UnlockThreshold <= 0 || st.Interactions >= c.UnlockThreshold
		if open && !satisfied {
			st.Remaining = c.UnlockThreshold - st.Interactions
		}

		// The gate for the next category: this one must be open and its
		// threshold satisfied.
		open = open && satisfied
		statuses = append(statuses, st)
	}
	return statuses
}
