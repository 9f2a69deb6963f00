package main

// Options is the root of the command line. Struct tags are read by
// github.com/jessevdk/go-flags.
type Options struct {
	Serve  *ServeCmd  `command:"serve"  description:"Serve the product selection form (default)"`
	Import *ImportCmd `command:"import" description:"Replace the stored catalog with a JSON, YAML, CSV or XLSX file"`
	Export *ExportCmd `command:"export" description:"Write the stored catalog as JSON or XLSX"`
	Audit  *AuditCmd  `command:"audit"  description:"List products whose model asset files are missing"`
}

// Init instantiates the sub-command named by the first argument so go-flags
// can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "serve":
		o.Serve = &ServeCmd{}
	case "import":
		o.Import = &ImportCmd{}
	case "export":
		o.Export = &ExportCmd{}
	case "audit":
		o.Audit = &AuditCmd{}
	}
}
