package importers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/carpenike/catalogsync/internal/catalog"
)

// ParseJSON parses a product_list.json mapping:
//
//	{"fruit": ["apple", "banana"], "veg": ["carrot"]}
//
// The document is streamed token by token so category order survives.
// A repeated key replaces the earlier list and keeps its first position.
func ParseJSON(r io.Reader) (*catalog.Catalog, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var entries []catalog.Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("importers: decode catalog json: %w", err)
		}
		key, _ := tok.(string)
		if key == "" {
			return nil, fmt.Errorf("importers: empty category name: %w", ErrInvalidCatalog)
		}

		var products []*string
		if err := dec.Decode(&products); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return nil, fmt.Errorf("importers: category %q: products must be a list of strings: %w", key, ErrInvalidCatalog)
			}
			return nil, fmt.Errorf("importers: decode category %q: %w", key, err)
		}

		e := catalog.Entry{Category: catalog.Category(key)}
		for i, p := range products {
			if p == nil {
				return nil, fmt.Errorf("importers: category %q: product %d is null: %w", key, i+1, ErrInvalidCatalog)
			}
			if name, ok := productName(*p); ok {
				e.Products = append(e.Products, name)
			}
		}
		entries = append(entries, e)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("importers: trailing data after catalog json: %v: %w", err, ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("importers: unexpected %v after catalog json: %w", tok, ErrInvalidCatalog)
	}

	return catalog.New(entries...), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return fmt.Errorf("importers: empty catalog json: %w", ErrInvalidCatalog)
	}
	if err != nil {
		return fmt.Errorf("importers: decode catalog json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("importers: expected %q in catalog json, got %v: %w", want, tok, ErrInvalidCatalog)
	}
	return nil
}

// WriteJSON writes c as a product_list.json mapping in catalog order.
func WriteJSON(w io.Writer, c *catalog.Catalog) error {
	entries := c.Entries()

	if _, err := io.WriteString(w, "{\n"); err != nil {
		return fmt.Errorf("importers: write catalog json: %w", err)
	}
	for i, e := range entries {
		key, err := json.Marshal(string(e.Category))
		if err != nil {
			return fmt.Errorf("importers: encode category %q: %w", e.Category, err)
		}
		products := e.Products
		if products == nil {
			products = []catalog.Product{}
		}
		list, err := json.Marshal(products)
		if err != nil {
			return fmt.Errorf("importers: encode products of %q: %w", e.Category, err)
		}

		sep := ","
		if i == len(entries)-1 {
			sep = ""
		}
		if _, err := fmt.Fprintf(w, "  %s: %s%s\n", key, list, sep); err != nil {
			return fmt.Errorf("importers: write catalog json: %w", err)
		}
	}
	if _, err := io.WriteString(w, "}\n"); err != nil {
		return fmt.Errorf("importers: write catalog json: %w", err)
	}
	return nil
}
