package importers

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/carpenike/catalogsync/internal/catalog"
)

func entriesOf(c *catalog.Catalog) map[string][]string {
	out := make(map[string][]string)
	for _, e := range c.Entries() {
		var products []string
		for _, p := range e.Products {
			products = append(products, string(p))
		}
		out[string(e.Category)] = products
	}
	return out
}

func categoriesOf(c *catalog.Catalog) []string {
	var out []string
	for _, cat := range c.Categories() {
		out = append(out, string(cat))
	}
	return out
}

// --- FormatFromName / DetectFormat tests ---

func TestFormatFromName(t *testing.T) {
	tests := map[string]Format{
		"product_list.json": FormatJSON,
		"catalog.YAML":      FormatYAML,
		"catalog.yml":       FormatYAML,
		"sheet.csv":         FormatCSV,
		"sheet.xlsx":        FormatXLSX,
		"notes.txt":         "",
		"noext":             "",
	}
	for name, want := range tests {
		if got := FormatFromName(name); got != want {
			t.Errorf("FormatFromName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"json", `{"fruit": ["apple"]}`, FormatJSON},
		{"json with BOM", "\xEF\xBB\xBF  {\"fruit\": []}", FormatJSON},
		{"csv", "category,product\nfruit,apple\n", FormatCSV},
		{"csv reordered", "Product,Category\r\napple,fruit\r\n", FormatCSV},
		{"yaml", "fruit:\n  - apple\n", FormatYAML},
		{"xlsx", "PK\x03\x04rest", FormatXLSX},
		{"empty", "  \n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat([]byte(tt.data)); got != tt.want {
				t.Errorf("DetectFormat = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- JSON tests ---

func TestParseJSON_KeepsOrder(t *testing.T) {
	c, err := ParseJSON(strings.NewReader(`{"veg": ["carrot"], "fruit": ["banana", "apple"], "empty": []}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if got, want := categoriesOf(c), []string{"veg", "fruit", "empty"}; !reflect.DeepEqual(got, want) {
		t.Errorf("categories = %v, want %v", got, want)
	}
	products, _ := c.Lookup("fruit")
	if want := []catalog.Product{"banana", "apple"}; !reflect.DeepEqual(products, want) {
		t.Errorf("fruit = %v, want %v", products, want)
	}
	if !c.Has("empty") {
		t.Error("expected empty category to be kept")
	}
}

func TestParseJSON_DuplicateKeyLastWins(t *testing.T) {
	c, err := ParseJSON(strings.NewReader(`{"a": ["1"], "b": ["2"], "a": ["3"]}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if got, want := categoriesOf(c), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("categories = %v, want %v", got, want)
	}
	if got := entriesOf(c)["a"]; !reflect.DeepEqual(got, []string{"3"}) {
		t.Errorf("a = %v, want [3]", got)
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	tests := map[string]string{
		"array root":      `["apple"]`,
		"empty input":     ``,
		"number products": `{"fruit": [1, 2]}`,
		"object products": `{"fruit": {"a": "b"}}`,
		"empty key":       `{"": ["x"]}`,
		"null product":    `{"fruit": ["apple", null]}`,
		"trailing data":   `{"fruit": ["apple"]} trailing`,
		"second object":   `{"fruit": ["apple"]} {"veg": []}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON(strings.NewReader(input))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`{"fruit": ["apple"`))
	if err == nil {
		t.Fatal("expected error for truncated json")
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	original := catalog.New(
		catalog.Entry{Category: "veg", Products: []catalog.Product{"carrot"}},
		catalog.Entry{Category: "fruit", Products: []catalog.Product{"apple", "banana \"ripe\""}},
		catalog.Entry{Category: "empty"},
	)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, original); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"empty": []`) {
		t.Errorf("expected empty list for empty category, got:\n%s", buf.String())
	}

	parsed, err := ParseJSON(&buf)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if !reflect.DeepEqual(parsed.Entries(), original.Entries()) {
		t.Errorf("round trip = %+v, want %+v", parsed.Entries(), original.Entries())
	}
}

func TestParse_BlankProductsSkippedInEveryFormat(t *testing.T) {
	inputs := map[string]string{
		"blank.json": `{"fruit": ["apple", "", "  "]}`,
		"blank.yaml": "fruit:\n  - apple\n  - \"\"\n  - \"  \"\n",
		"blank.csv":  "category,product\nfruit,apple\nfruit,\nfruit,\"  \"\n",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			c, err := Parse(name, strings.NewReader(input))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			opts := catalog.Synchronize("fruit", c)
			want := []catalog.Option{
				{Value: "", Label: catalog.ProductPlaceholder},
				{Value: "apple", Label: "apple"},
			}
			if !reflect.DeepEqual(opts, want) {
				t.Errorf("Synchronize = %+v, want %+v", opts, want)
			}
		})
	}
}

// --- YAML tests ---

func TestParseYAML(t *testing.T) {
	input := `
veg:
  - carrot
fruit:
  - apple
  - banana
empty:
`
	c, err := ParseYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if got, want := categoriesOf(c), []string{"veg", "fruit", "empty"}; !reflect.DeepEqual(got, want) {
		t.Errorf("categories = %v, want %v", got, want)
	}
	if got := entriesOf(c)["fruit"]; !reflect.DeepEqual(got, []string{"apple", "banana"}) {
		t.Errorf("fruit = %v", got)
	}
}

func TestParseYAML_Invalid(t *testing.T) {
	tests := map[string]string{
		"sequence root":   "- apple\n- banana\n",
		"scalar products": "fruit: apple\n",
		"nested products": "fruit:\n  - [apple]\n",
		"empty":           "",
		"null product":    "fruit:\n  - apple\n  - ~\n",
		"null literal":    "fruit:\n  - null\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseYAML(strings.NewReader(input))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

// --- CSV tests ---

func TestParseCSV_GroupsByCategory(t *testing.T) {
	input := "Category,Product,Notes\n" +
		"veg,carrot,\n" +
		"fruit,apple,red\n" +
		"veg,leek,\n" +
		",,\n" +
		"fruit,banana,\n" +
		"snacks,,\n"

	c, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	want := map[string][]string{
		"veg":    {"carrot", "leek"},
		"fruit":  {"apple", "banana"},
		"snacks": nil,
	}
	if got := entriesOf(c); !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
	if got, want := categoriesOf(c), []string{"veg", "fruit", "snacks"}; !reflect.DeepEqual(got, want) {
		t.Errorf("categories = %v, want %v", got, want)
	}
}

func TestParseCSV_MissingColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("name,price\napple,1\n"))
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestParseCSV_ProductWithoutCategory(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("category,product\n,apple\n"))
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

// --- XLSX tests ---

func TestXLSX_RoundTrip(t *testing.T) {
	original := catalog.New(
		catalog.Entry{Category: "veg", Products: []catalog.Product{"carrot"}},
		catalog.Entry{Category: "fruit", Products: []catalog.Product{"apple", "banana"}},
		catalog.Entry{Category: "empty"},
	)

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, original); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	if got := DetectFormat(buf.Bytes()); got != FormatXLSX {
		t.Errorf("DetectFormat(xlsx) = %q", got)
	}

	parsed, err := ParseXLSX(&buf)
	if err != nil {
		t.Fatalf("ParseXLSX: %v", err)
	}
	if !reflect.DeepEqual(parsed.Entries(), original.Entries()) {
		t.Errorf("round trip = %+v, want %+v", parsed.Entries(), original.Entries())
	}
}

func TestParseXLSX_NotAWorkbook(t *testing.T) {
	if _, err := ParseXLSX(strings.NewReader("not a zip")); err == nil {
		t.Fatal("expected error for non-xlsx input")
	}
}

// --- Parse dispatch tests ---

func TestParse_ByExtension(t *testing.T) {
	c, err := Parse("catalog.yml", strings.NewReader("fruit: [apple]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !c.Has("fruit") {
		t.Error("expected fruit category")
	}
}

func TestParse_DetectsWithoutExtension(t *testing.T) {
	c, err := Parse("upload", strings.NewReader("\xEF\xBB\xBF{\"fruit\": [\"apple\"]}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := entriesOf(c)["fruit"]; !reflect.DeepEqual(got, []string{"apple"}) {
		t.Errorf("fruit = %v", got)
	}
}

func TestParse_Unsupported(t *testing.T) {
	_, err := Parse("catalog.txt", strings.NewReader("fruit: [apple]"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFirstLineOf(t *testing.T) {
	if got := firstLineOf([]byte("a,b\r\nc")); got != "a,b" {
		t.Errorf("firstLineOf = %q", got)
	}
	if got := firstLineOf([]byte("single")); got != "single" {
		t.Errorf("firstLineOf = %q", got)
	}
}
