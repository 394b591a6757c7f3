// Package categories holds the default category set, the YAML file format
// used by `categories export|import` and an in-memory lookup index.
package categories

import (
	"strings"

	"github.com/cleared-dev/spendsort/internal/model"
)

// Index provides in-memory lookup over a user's categories.
type Index struct {
	cats   []model.Category
	byName map[string]model.Category
}

// NewIndex creates an Index from a slice of categories. Lookups ignore case.
func NewIndex(cats []model.Category) *Index {
	byName := make(map[string]model.Category, len(cats))
	for _, c := range cats {
		byName[strings.ToLower(c.Name)] = c
	}
	return &Index{cats: cats, byName: byName}
}

// All returns all categories in their defined order.
func (x *Index) All() []model.Category {
	return x.cats
}

// Get returns a category by name.
func (x *Index) Get(name string) (model.Category, bool) {
	c, ok := x.byName[strings.ToLower(name)]
	return c, ok
}

// Exists reports whether a category name exists.
func (x *Index) Exists(name string) bool {
	_, ok := x.byName[strings.ToLower(name)]
	return ok
}

// Group returns the group of the named category. Unknown names and
// categories without a group report model.DefaultGroup.
func (x *Index) Group(name string) string {
	if c, ok := x.Get(name); ok {
		return c.GroupName()
	}
	return model.DefaultGroup
}

// Groups returns the distinct groups in first-appearance order.
func (x *Index) Groups() []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range x.cats {
		g := c.GroupName()
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}
