// Package importers parses category→product catalogs from the file formats
// the catalog is maintained in: the product_list.json mapping, YAML, CSV and
// XLSX spreadsheets.
package importers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/carpenike/catalogsync/internal/catalog"
)

// Format identifies the source format of a catalog file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned when a catalog file's format cannot be
// determined or is not supported.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// ErrInvalidCatalog is returned when a catalog file is readable but does not
// have the category→products shape.
var ErrInvalidCatalog = errors.New("invalid catalog")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Column headers recognised in tabular (CSV, XLSX) catalogs.
const (
	colCategory = "category"
	colProduct  = "product"
)

// FormatFromName maps a file name to its format by extension. It returns the
// empty format for unknown extensions.
func FormatFromName(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	}
	return ""
}

// DetectFormat guesses the format from file content. XLSX files are zip
// archives; JSON starts with an object; a first line naming the category
// and product columns is CSV. Anything else is tried as YAML.
func DetectFormat(data []byte) Format {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return FormatXLSX
	}

	trimmed := bytes.TrimPrefix(data, utf8BOM)
	trimmed = bytes.TrimLeft(trimmed, " \t\r\n")
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '{' {
		return FormatJSON
	}

	header := strings.ToLower(firstLineOf(trimmed))
	if strings.Contains(header, ",") && strings.Contains(header, colCategory) && strings.Contains(header, colProduct) {
		return FormatCSV
	}
	return FormatYAML
}

// Parse reads a catalog from r. The format comes from the file name's
// extension, falling back to content detection when the name has none.
func Parse(name string, r io.Reader) (*catalog.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("importers: read %s: %w", name, err)
	}

	format := FormatFromName(name)
	if format == "" && filepath.Ext(name) == "" {
		format = DetectFormat(data)
	}
	if format != FormatXLSX {
		data = bytes.TrimPrefix(data, utf8BOM)
	}

	switch format {
	case FormatJSON:
		return ParseJSON(bytes.NewReader(data))
	case FormatYAML:
		return ParseYAML(bytes.NewReader(data))
	case FormatCSV:
		return ParseCSV(bytes.NewReader(data))
	case FormatXLSX:
		return ParseXLSX(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("importers: %s: %w", name, ErrUnsupportedFormat)
}

// grouper collects (category, product) rows into entries, keeping the order
// in which categories are first seen.
type grouper struct {
	index   map[catalog.Category]int
	entries []catalog.Entry
}

func newGrouper() *grouper {
	return &grouper{index: make(map[catalog.Category]int)}
}

func (g *grouper) add(category, product string) {
	cat := catalog.Category(category)
	i, ok := g.index[cat]
	if !ok {
		i = len(g.entries)
		g.index[cat] = i
		g.entries = append(g.entries, catalog.Entry{Category: cat})
	}
	if p, ok := productName(product); ok {
		g.entries[i].Products = append(g.entries[i].Products, p)
	}
}

// productName trims a product cell or list item. Blank products are
// dropped in every format: the empty option value belongs to the
// placeholder.
func productName(s string) (catalog.Product, bool) {
	s = strings.TrimSpace(s)
	return catalog.Product(s), s != ""
}

func (g *grouper) catalog() *catalog.Catalog {
	return catalog.New(g.entries...)
}

// columnIndex finds the category and product columns in a header row.
func columnIndex(header []string) (category, product int, err error) {
	category, product = -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))) {
		case colCategory:
			category = i
		case colProduct:
			product = i
		}
	}
	if category < 0 || product < 0 {
		return 0, 0, fmt.Errorf("header must contain %q and %q columns: %w", colCategory, colProduct, ErrInvalidCatalog)
	}
	return category, product, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func firstLineOf(data []byte) string {
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return string(data[:i])
		}
	}
	return string(data)
}
