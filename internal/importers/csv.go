package importers

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/carpenike/catalogsync/internal/catalog"
)

// ParseCSV parses a two-column catalog sheet with a header row naming the
// "category" and "product" columns. Extra columns are ignored. Rows are
// grouped by category in first-seen order; rows with a blank product add
// the category without a product.
func ParseCSV(r io.Reader) (*catalog.Catalog, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("importers: read catalog csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("importers: catalog csv has no header row: %w", ErrInvalidCatalog)
	}

	return groupRows(records)
}

// groupRows turns a header row plus data rows into a catalog.
func groupRows(rows [][]string) (*catalog.Catalog, error) {
	catCol, prodCol, err := columnIndex(rows[0])
	if err != nil {
		return nil, fmt.Errorf("importers: %w", err)
	}

	g := newGrouper()
	for i, row := range rows[1:] {
		category, product := cell(row, catCol), cell(row, prodCol)
		if category == "" {
			if product == "" {
				continue // blank line
			}
			return nil, fmt.Errorf("importers: row %d: product %q has no category: %w", i+2, product, ErrInvalidCatalog)
		}
		g.add(category, product)
	}
	return g.catalog(), nil
}
