package upload

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/lumeshot/lumeshot/internal/server/categories"
)

type fakeCategoryRepo struct {
	upserts int
	rows    map[string]*categories.Category // title -> row
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{rows: map[string]*categories.Category{}}
}

func (f *fakeCategoryRepo) Upsert(ctx context.Context, projectID, title string, threshold int) (*categories.Category, error) {
	f.upserts++
	if c, ok := f.rows[title]; ok {
		return c, nil
	}
	c := &categories.Category{
		ID:              fmt.Sprintf("cat-%d", len(f.rows)+1),
		ProjectID:       projectID,
		Title:           title,
		UnlockThreshold: threshold,
	}
	f.rows[title] = c
	return c, nil
}

func (f *fakeCategoryRepo) GetByProject(ctx context.Context, projectID string) ([]*categories.Category, error) {
	var out []*categories.Category
	for _, c := range f.rows {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) LinkImages(ctx context.Context, categoryID string, imageIDs []string) error {
	return nil
}

func TestLeafFolder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"a.png", RootCategory},
		{"Haldi/a.png", "Haldi"},
		{"wedding/Haldi/a.png", "Haldi"},
		{"./a.png", RootCategory},
		{"", RootCategory},
	}
	for _, tc := range tests {
		if got := LeafFolder(tc.path); got != tc.want {
			t.Errorf("LeafFolder(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestDistinctLeaves_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	paths := []string{
		"Mehndi/1.png",
		"Haldi/1.png",
		"Mehndi/2.png",
		"3.png",
		"Haldi/2.png",
	}
	got := DistinctLeaves(paths)
	want := []string{"Mehndi", "Haldi", RootCategory}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DistinctLeaves = %v, want %v", got, want)
	}
}

func TestEnsureCategories_OnePerLeaf(t *testing.T) {
	t.Parallel()

	repo := newFakeCategoryRepo()
	paths := []string{"Haldi/a.png", "Mehndi/a.png", "Haldi/b.png"}

	mapping, err := EnsureCategories(context.Background(), repo, "p-1", paths)
	if err != nil {
		t.Fatalf("EnsureCategories error: %v", err)
	}

	if len(mapping) != 2 {
		t.Fatalf("expected 2 categories, got %d: %v", len(mapping), mapping)
	}
	if mapping["Haldi"] == "" || mapping["Mehndi"] == "" {
		t.Fatalf("missing category ids: %v", mapping)
	}
	if mapping["Haldi"] == mapping["Mehndi"] {
		t.Fatalf("categories should be distinct: %v", mapping)
	}
	if repo.upserts != 2 {
		t.Fatalf("expected one upsert per distinct leaf, got %d", repo.upserts)
	}
}

func TestEnsureCategories_EmptyList(t *testing.T) {
	t.Parallel()

	repo := newFakeCategoryRepo()
	mapping, err := EnsureCategories(context.Background(), repo, "p-1", nil)
	if err != nil {
		t.Fatalf("EnsureCategories error: %v", err)
	}
	if len(mapping) != 0 {
		t.Fatalf("expected empty mapping, got %v", mapping)
	}
	if repo.upserts != 0 {
		t.Fatalf("expected no upserts, got %d", repo.upserts)
	}
}
