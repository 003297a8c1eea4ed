package symbols

import _ "embed"

// Query files are resolved with priority project ≻ user ≻ built-in per
// spec.md §4.5; these embedded sources are the built-in tier. A project
// or user override directory is consulted by resolveQuerySource (used by
// NewExtractorWithOverrides, override.go) before falling back to these.

//go:embed queries/python.scm
var pythonQuery string

//go:embed queries/go.scm
var goQuery string

//go:embed queries/javascript.scm
var javascriptQuery string

//go:embed queries/typescript.scm
var typescriptQuery string

//go:embed queries/java.scm
var javaQuery string

//go:embed queries/ruby.scm
var rubyQuery string

//go:embed queries/rust.scm
var rustQuery string

//go:embed queries/php.scm
var phpQuery string

//go:embed queries/c.scm
var cQuery string
