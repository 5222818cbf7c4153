package unlock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeshot/lumeshot/internal/server/categories"
)

func cat(id, title string, threshold int, created time.Time) *categories.Category {
	return &categories.Category{
		ID:              id,
		ProjectID:       "p1",
		Title:           title,
		UnlockThreshold: threshold,
		CreatedAt:       created,
	}
}

func TestEvaluate_FirstCategoryAlwaysOpen(t *testing.T) {
	t.Parallel()

	base := time.Now()
	statuses := Evaluate([]*categories.Category{
		cat("c1", "Haldi", 50, base),
		cat("c2", "Mehndi", 50, base.Add(time.Minute)),
	}, nil)

	require.Len(t, statuses, 2)
	assert.Equal(t, StateUnlocked, statuses[0].State)
	assert.Equal(t, StateLocked, statuses[1].State)
	assert.Equal(t, 50, statuses[0].Remaining)
	assert.Equal(t, 0, statuses[1].Remaining)
}

func TestEvaluate_ThresholdOpensNext(t *testing.T) {
	t.Parallel()

	base := time.Now()
	cats := []*categories.Category{
		cat("c1", "Haldi", 2, base),
		cat("c2", "Mehndi", 3, base.Add(time.Minute)),
		cat("c3", "Reception", 3, base.Add(2*time.Minute)),
	}

	// first threshold met, second not
	statuses := Evaluate(cats, map[string]int{"c1": 2, "c2": 1})
	require.Len(t, statuses, 3)
	assert.Equal(t, StateUnlocked, statuses[0].State)
	assert.Equal(t, StateUnlocked, statuses[1].State)
	assert.Equal(t, StateLocked, statuses[2].State)
	assert.Equal(t, 2, statuses[1].Remaining)

	// all thresholds met
	statuses = Evaluate(cats, map[string]int{"c1": 2, "c2": 3, "c3": 10})
	assert.Equal(t, StateUnlocked, statuses[2].State)
	assert.Equal(t, 0, statuses[2].Remaining)
}

func TestEvaluate_LockedChainStaysLocked(t *testing.T) {
	t.Parallel()

	base := time.Now()
	cats := []*categories.Category{
		cat("c1", "Haldi", 5, base),
		cat("c2", "Mehndi", 1, base.Add(time.Minute)),
		cat("c3", "Reception", 1, base.Add(2*time.Minute)),
	}

	// interactions in a locked category do not leapfrog the chain
	statuses := Evaluate(cats, map[string]int{"c2": 99, "c3": 99})
	assert.Equal(t, StateUnlocked, statuses[0].State)
	assert.Equal(t, StateLocked, statuses[1].State)
	assert.Equal(t, StateLocked, statuses[2].State)
}

func TestEvaluate_NonPositiveThresholdNeverGates(t *testing.T) {
	t.Parallel()

	base := time.Now()
	statuses := Evaluate([]*categories.Category{
		cat("c1", "Haldi", 0, base),
		cat("c2", "Mehndi", 1, base.Add(time.Minute)),
	}, nil)

	assert.Equal(t, StateUnlocked, statuses[0].State)
	assert.Equal(t, StateUnlocked, statuses[1].State)
}

func TestEvaluate_OrderedByCreation(t *testing.T) {
	t.Parallel()

	base := time.Now()
	// given out of order, Evaluate must order by CreatedAt
	statuses := Evaluate([]*categories.Category{
		cat("c2", "Mehndi", 1, base.Add(time.Minute)),
		cat("c1", "Haldi", 1, base),
	}, nil)

	require.Len(t, statuses, 2)
	assert.Equal(t, "c1", statuses[0].CategoryID)
	assert.Equal(t, "c2", statuses[1].CategoryID)
}

func TestEvaluate_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Evaluate(nil, nil))
}
