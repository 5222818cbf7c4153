package upload

import (
	"context"
	"strings"

	"github.com/lumeshot/lumeshot/internal/server/categories"
)

// RootCategory is the sentinel category for files uploaded without any
// directory component.
const RootCategory = "root"

// LeafFolder returns the deepest directory component of a relative path,
// or RootCategory when the path has no directory component. Paths use "/"
// separators regardless of the client's platform.
func LeafFolder(relativePath string) string {
	idx := strings.LastIndex(relativePath, "/")
	if idx < 0 {
		return RootCategory
	}
	dir := relativePath[:idx]
	if dir == "" || dir == "." {
		return RootCategory
	}
	parts := strings.Split(dir, "/")
	return parts[len(parts)-1]
}

// DistinctLeaves returns the distinct leaf folder names of the given paths,
// preserving first-seen order. Order matters only for display; storage
// semantics do not depend on it.
func DistinctLeaves(relativePaths []string) []string {
	seen := make(map[string]struct{}, len(relativePaths))
	var leaves []string
	for _, p := range relativePaths {
		leaf := LeafFolder(p)
		if _, ok := seen[leaf]; ok {
			continue
		}
		seen[leaf] = struct{}{}
		leaves = append(leaves, leaf)
	}
	return leaves
}

// EnsureCategories upserts one category per distinct leaf folder and
// returns the leaf-name to category-id mapping for the batch. The upsert is
// atomic at the database layer, so racing batches for the same project
// resolve to the same rows. An empty path list yields an empty mapping.
func EnsureCategories(ctx context.Context, repo categories.Repository, projectID string, relativePaths []string) (map[string]string, error) {
	mapping := make(map[string]string)
	for _, leaf := range DistinctLeaves(relativePaths) {
		cat, err := repo.Upsert(ctx, projectID, leaf, categories.DefaultUnlockThreshold)
		if err != nil {
			return nil, err
		}
		mapping[leaf] = cat.ID
	}
	return mapping, nil
}
