package database

import _ "embed"

//go:embed product_list.json
var defaultCatalog []byte

// DefaultCatalog returns the embedded product_list.json used to seed an
// empty database. It maps each category to its ordered product names.
func DefaultCatalog() []byte {
	return defaultCatalog
}
