package importers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/carpenike/catalogsync/internal/catalog"
)

// ParseXLSX parses a catalog spreadsheet. Only the first sheet is read; it
// uses the same header and grouping rules as ParseCSV.
func ParseXLSX(r io.Reader) (*catalog.Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("importers: open catalog xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("importers: catalog xlsx has no sheets: %w", ErrInvalidCatalog)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("importers: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("importers: sheet %q has no header row: %w", sheets[0], ErrInvalidCatalog)
	}

	return groupRows(rows)
}

// WriteXLSX writes c as a single-sheet workbook with category and product
// columns, one row per product. Categories without products get one row
// with a blank product so they survive a round trip.
func WriteXLSX(w io.Writer, c *catalog.Catalog) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{colCategory, colProduct}); err != nil {
		return fmt.Errorf("importers: write xlsx header: %w", err)
	}

	row := 2
	for _, e := range c.Entries() {
		products := e.Products
		if len(products) == 0 {
			products = []catalog.Product{""}
		}
		for _, p := range products {
			cellRef, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return fmt.Errorf("importers: xlsx row %d: %w", row, err)
			}
			if err := f.SetSheetRow(sheet, cellRef, &[]any{string(e.Category), string(p)}); err != nil {
				return fmt.Errorf("importers: write xlsx row %d: %w", row, err)
			}
			row++
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("importers: write xlsx: %w", err)
	}
	return nil
}
