package categories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/spendsort/internal/model"
)

// ValidationError describes one problem with a category list.
type ValidationError struct {
	Category    string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("category %q: %s", e.Category, e.Description)
}

// Validate checks that names are present and unique (ignoring case) and that
// no keyword is blank.
func Validate(cats []model.Category) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(cats))

	for i, c := range cats {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			errs = append(errs, ValidationError{
				Category:    fmt.Sprintf("#%d", i+1),
				Description: "name is required",
			})
			continue
		}

		folded := strings.ToLower(name)
		if seen[folded] {
			errs = append(errs, ValidationError{Category: name, Description: "duplicate name"})
		}
		seen[folded] = true

		for _, kw := range c.Keywords {
			if strings.TrimSpace(kw) == "" {
				errs = append(errs, ValidationError{Category: name, Description: "blank keyword"})
				break
			}
		}
	}
	return errs
}

// Join combines validation errors into one error, or nil when there are none.
func Join(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return errors.Join(joined...)
}
