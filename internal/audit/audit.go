// Package audit checks that every catalog product has its forecast model
// assets on disk.
package audit

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/carpenike/catalogsync/internal/catalog"
)

// AssetKind names one of the files a product's forecast needs.
type AssetKind string

const (
	AssetARIMA  AssetKind = "arima"
	AssetRF     AssetKind = "rf"
	AssetLSTM   AssetKind = "lstm"
	AssetScaler AssetKind = "scaler"
)

// Kinds lists the asset kinds in the order they are checked and reported.
var Kinds = []AssetKind{AssetARIMA, AssetRF, AssetLSTM, AssetScaler}

// FileName returns the asset file name expected for product.
func FileName(product catalog.Product, kind AssetKind) string {
	stem := catalog.CleanName(string(product))
	switch kind {
	case AssetARIMA:
		return stem + "_arima_model.pkl"
	case AssetRF:
		return stem + "_rf_model.pkl"
	case AssetLSTM:
		return stem + "_lstm_model.h5"
	case AssetScaler:
		return stem + "_scaler.pkl"
	}
	return ""
}

// Missing is one product with at least one absent asset.
type Missing struct {
	Category catalog.Category
	Product  catalog.Product
	Kinds    []AssetKind
}

// Report is the result of an audit run.
type Report struct {
	Products int // products checked
	Missing  []Missing
}

// OK reports whether every product had all of its assets.
func (r Report) OK() bool {
	return len(r.Missing) == 0
}

// Run checks fsys (the models directory) for the assets of every product
// in c. Products are reported in catalog order.
func Run(fsys fs.FS, c *catalog.Catalog) (Report, error) {
	var report Report
	for _, e := range c.Entries() {
		for _, p := range e.Products {
			report.Products++

			var absent []AssetKind
			for _, kind := range Kinds {
				ok, err := exists(fsys, FileName(p, kind))
				if err != nil {
					return Report{}, fmt.Errorf("audit: %s %s: %w", p, kind, err)
				}
				if !ok {
					absent = append(absent, kind)
				}
			}
			if len(absent) > 0 {
				report.Missing = append(report.Missing, Missing{Category: e.Category, Product: p, Kinds: absent})
			}
		}
	}
	return report, nil
}

func exists(fsys fs.FS, name string) (bool, error) {
	_, err := fs.Stat(fsys, name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WriteText prints the report as a plain-text listing, one product per line.
func (r Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "=== Missing model assets ==="); err != nil {
		return err
	}
	for _, m := range r.Missing {
		line := string(m.Product) + ": "
		for i, k := range m.Kinds {
			if i > 0 {
				line += ", "
			}
			line += string(k)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
