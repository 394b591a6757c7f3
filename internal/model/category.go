package model

// DefaultGroup is used when a category has no group or is not known.
const DefaultGroup = "Other"

// Uncategorized is returned when a user has no categories at all.
const Uncategorized = "Uncategorized"

// Category is a user-defined spending bucket.
type Category struct {
	ID        string
	Name      string
	Keywords  []string // matched in order
	Group     string
	IsDefault bool
}

// GroupName returns the category's group, falling back to DefaultGroup.
func (c Category) GroupName() string {
	if c.Group == "" {
		return DefaultGroup
	}
	return c.Group
}
