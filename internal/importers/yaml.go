package importers

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/carpenike/catalogsync/internal/catalog"
)

// ParseYAML parses a catalog written as a YAML mapping of category to a
// sequence of products. It decodes into a yaml.Node so that key order is
// kept.
func ParseYAML(r io.Reader) (*catalog.Catalog, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("importers: empty catalog yaml: %w", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("importers: decode catalog yaml: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("importers: catalog yaml root must be a mapping (line %d): %w", root.Line, ErrInvalidCatalog)
	}

	entries := make([]catalog.Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, fmt.Errorf("importers: invalid category name (line %d): %w", key.Line, ErrInvalidCatalog)
		}

		e := catalog.Entry{Category: catalog.Category(key.Value)}
		switch {
		case value.Kind == yaml.ScalarNode && value.ShortTag() == "!!null":
		case value.Kind == yaml.SequenceNode:
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode || item.ShortTag() == "!!null" {
					return nil, fmt.Errorf("importers: category %q: product on line %d is not a string: %w", key.Value, item.Line, ErrInvalidCatalog)
				}
				if name, ok := productName(item.Value); ok {
					e.Products = append(e.Products, name)
				}
			}
		default:
			return nil, fmt.Errorf("importers: category %q: products must be a list (line %d): %w", key.Value, value.Line, ErrInvalidCatalog)
		}
		entries = append(entries, e)
	}

	return catalog.New(entries...), nil
}
