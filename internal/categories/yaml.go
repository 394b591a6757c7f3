package categories

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/spendsort/internal/model"
)

type fileCategory struct {
	ID       string   `yaml:"id,omitempty"`
	Name     string   `yaml:"name"`
	Group    string   `yaml:"group,omitempty"`
	Keywords []string `yaml:"keywords,flow"`
}

type file struct {
	Categories []fileCategory `yaml:"categories"`
}

// ReadYAML reads a category file. The order of entries is the order keyword
// rules are tried in.
func ReadYAML(r io.Reader) ([]model.Category, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding categories: %w", err)
	}

	cats := make([]model.Category, 0, len(f.Categories))
	for _, fc := range f.Categories {
		cats = append(cats, model.Category{
			ID:       fc.ID,
			Name:     fc.Name,
			Keywords: fc.Keywords,
			Group:    fc.Group,
		})
	}
	if err := Join(Validate(cats)); err != nil {
		return nil, fmt.Errorf("invalid categories: %w", err)
	}
	return cats, nil
}

// WriteYAML writes categories in the format ReadYAML accepts.
func WriteYAML(w io.Writer, cats []model.Category) error {
	f := file{Categories: make([]fileCategory, 0, len(cats))}
	for _, c := range cats {
		f.Categories = append(f.Categories, fileCategory{
			ID:       c.ID,
			Name:     c.Name,
			Group:    c.Group,
			Keywords: c.Keywords,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding categories: %w", err)
	}
	return enc.Close()
}
