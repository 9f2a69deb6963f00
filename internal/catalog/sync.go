package catalog

// ProductPlaceholder is the label of the always-present first entry of the
// product dropdown.
const ProductPlaceholder = "-- Select Product --"

// CategoryPlaceholder is the label of the first entry of the category dropdown.
const CategoryPlaceholder = "-- Select Category --"

// Option is one entry of a dropdown.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// Synchronize returns the complete option list for the product dropdown
// given the selected category: the placeholder followed by one option per
// product of that category, in catalog order. An unknown or empty category
// yields only the placeholder.
//
// The returned slice is freshly allocated on every call, so callers replace
// the dropdown contents wholesale rather than patching them.
func Synchronize(selected Category, c *Catalog) []Option {
	products, ok := c.Lookup(selected)
	if !ok {
		return []Option{{Value: "", Label: ProductPlaceholder}}
	}

	options := make([]Option, 0, len(products)+1)
	options = append(options, Option{Value: "", Label: ProductPlaceholder})
	for _, p := range products {
		options = append(options, Option{Value: string(p), Label: string(p)})
	}
	return options
}

// CategoryOptions returns the option list for the category dropdown with
// the selected category marked. A selection that is not in the catalog
// leaves the placeholder selected.
func CategoryOptions(c *Catalog, selected Category) []Option {
	options := make([]Option, 0, c.Len()+1)
	options = append(options, Option{
		Value:    "",
		Label:    CategoryPlaceholder,
		Selected: !c.Has(selected),
	})
	for _, cat := range c.Categories() {
		options = append(options, Option{
			Value:    string(cat),
			Label:    string(cat),
			Selected: cat == selected,
		})
	}
	return options
}

// SelectProduct returns a copy of options with the option whose value is
// product marked selected. Unknown products leave nothing marked.
func SelectProduct(options []Option, product Product) []Option {
	out := make([]Option, len(options))
	for i, o := range options {
		o.Selected = product != "" && o.Value == string(product)
		out[i] = o
	}
	return out
}
