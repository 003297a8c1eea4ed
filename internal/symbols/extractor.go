// Package symbols loads tree-sitter grammars and query files to identify
// definitions (functions, classes, methods, ...), per spec.md §4.5.
// Grammars and compiled queries are process-wide immutable singletons
// built once by NewExtractor; ExtractFile is safe for concurrent use,
// each call getting its own *sitter.Parser per spec.md §9 ("Tree-sitter
// parsers ... use one parser per worker").
package symbols

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tsc "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tsgo "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tsjava "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tsjavascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tsphp "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tspython "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tsruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tsrust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tstypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/cocosearch/cocosearch/internal/storage"
)

// Kind is a symbol_type value, per spec.md §3 Chunk.symbol_type domain.
type Kind string

const (
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
	KindMethod    Kind = "method"
	KindInterface Kind = "interface"
	KindStruct    Kind = "struct"
	KindTrait     Kind = "trait"
	KindEnum      Kind = "enum"
)

// Definition is one extracted symbol: its byte range (for overlap checks
// against chunks), kind, local and qualified names, and signature.
type Definition struct {
	Start           int
	End             int
	Kind            Kind
	Name            string
	QualifiedName   string
	Signature       string
}

// FileResult is the outcome of extracting definitions from one file,
// feeding directly into storage.FileParseResult.
type FileResult struct {
	Definitions []Definition
	Status      storage.ParseStatus
	Error       string
}

// qualifier builds a definition's qualified name and may reclassify its
// kind (e.g. a nested function becomes a method), given the raw capture
// node, its local name, the source bytes, and any extra named captures
// the language's query produced (e.g. "receiver.type" for Go).
type qualifier func(defNode *sitter.Node, name string, source []byte, extra map[string]*sitter.Node, kind Kind) (string, Kind)

// binding is one language's tree-sitter wiring: grammar, compiled query,
// qualified-name builder, and the signature body delimiter (spec.md §4.5
// "colon terminator ... included").
type binding struct {
	languageID    string
	lang          *sitter.Language
	querySource   string
	query         *sitter.Query
	qualify       qualifier
	bodyDelimiter byte // '{', ':' or '\n'
}

// Extractor holds every compiled language binding. Built once at process
// start via NewExtractor.
type Extractor struct {
	bindings map[string]*binding
}

// NewExtractor compiles every built-in language's query file. Returns an
// error if a query fails to compile against its grammar.
func NewExtractor() (*Extractor, error) {
	e := &Extractor{bindings: make(map[string]*binding)}
	for _, b := range builtinBindings() {
		q, err := compileQuery(b)
		if err != nil {
			return nil, err
		}
		b.query = q
		e.bindings[b.languageID] = b
	}
	return e, nil
}

func compileQuery(b *binding) (*sitter.Query, error) {
	q, err := sitter.NewQuery(b.lang, b.querySource)
	if err != nil {
		return nil, fmt.Errorf("symbols: failed to compile %s query: %w", b.languageID, err)
	}
	return q, nil
}

// Supports reports whether languageID has a registered query, per
// spec.md §4.5 "a file whose language has no query is unsupported".
func (e *Extractor) Supports(languageID string) bool {
	_, ok := e.bindings[languageID]
	return ok
}

// ExtractFile parses source with languageID's grammar and extracts every
// tagged definition, per spec.md §4.5 parse-robustness rules:
//   - no registered query  -> ParseUnsupported
//   - parser failed to init -> ParseError
//   - parse tree has error nodes -> ParsePartial
//   - otherwise -> ParseOK
func (e *Extractor) ExtractFile(languageID string, source []byte) *FileResult {
	b, ok := e.bindings[languageID]
	if !ok {
		return &FileResult{Status: storage.ParseUnsupported}
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(b.lang); err != nil {
		return &FileResult{Status: storage.ParseError, Error: fmt.Sprintf("failed to set language: %v", err)}
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return &FileResult{Status: storage.ParseError, Error: "parser failed to initialise"}
	}
	defer tree.Close()

	root := tree.RootNode()
	status := storage.ParseOK
	errMsg := ""
	if root.HasError() {
		status = storage.ParsePartial
		errMsg = "source contains one or more syntax errors"
	}

	defs := e.extractDefinitions(b, root, source)
	return &FileResult{Definitions: defs, Status: status, Error: errMsg}
}

func (e *Extractor) extractDefinitions(b *binding, root *sitter.Node, source []byte) []Definition {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	names := b.query.CaptureNames()
	matches := cursor.Matches(b.query, root, source)

	var defs []Definition
	for {
		m := matches.Next()
		if m == nil {
			break
		}

		var defNode *sitter.Node
		var nameNode *sitter.Node
		var kind Kind
		extra := make(map[string]*sitter.Node)

		for _, c := range m.Captures {
			capName := names[c.Index]
			node := c.Node
			switch {
			case strings.HasPrefix(capName, "definition."):
				n := node
				defNode = &n
				kind = Kind(strings.TrimPrefix(capName, "definition."))
			case capName == "name":
				n := node
				nameNode = &n
			default:
				n := node
				extra[capName] = &n
			}
		}
		if defNode == nil || nameNode == nil {
			continue
		}

		name := nodeText(*nameNode, source)
		qualified, finalKind := name, kind
		if b.qualify != nil {
			qualified, finalKind = b.qualify(defNode, name, source, extra, kind)
		}

		defs = append(defs, Definition{
			Start:         int(defNode.StartByte()),
			End:           int(defNode.EndByte()),
			Kind:          finalKind,
			Name:          name,
			QualifiedName: qualified,
			Signature:     signatureOf(*defNode, source, b.bodyDelimiter),
		})
	}
	return defs
}

func nodeText(n sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

// signatureOf returns the declaration prefix up to (not including) the
// opening body delimiter, collapsed to one line; for colon-terminated
// languages the colon is included, per spec.md §4.5.
func signatureOf(n sitter.Node, source []byte, delimiter byte) string {
	text := nodeText(n, source)
	idx := strings.IndexByte(text, delimiter)
	if idx < 0 {
		return collapseWhitespace(text)
	}
	if delimiter == ':' {
		return collapseWhitespace(text[:idx+1])
	}
	return collapseWhitespace(text[:idx])
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.TrimSpace(strings.Join(fields, " "))
}

// ancestorQualify builds "Outer.Inner.name" from every enclosing node
// whose kind is a key of scopeFieldByKind, using the named field that
// holds that ancestor's own name — module-path joining for nested scopes,
// per spec.md §4.5. If reclassifyAsMethod is true and at least one scope
// was found, a KindFunction definition becomes KindMethod (nested
// function -> method).
func ancestorQualify(scopeFieldByKind map[string]string, reclassifyAsMethod bool) qualifier {
	return func(defNode *sitter.Node, name string, source []byte, _ map[string]*sitter.Node, kind Kind) (string, Kind) {
		var scopes []string
		cur := defNode.Parent()
		for cur != nil {
			if field, ok := scopeFieldByKind[cur.Kind()]; ok {
				if n := cur.ChildByFieldName(field); n != nil {
					scopes = append([]string{nodeText(*n, source)}, scopes...)
				}
			}
			cur = cur.Parent()
		}
		if len(scopes) == 0 {
			return name, kind
		}
		if reclassifyAsMethod && kind == KindFunction {
			kind = KindMethod
		}
		return strings.Join(scopes, ".") + "." + name, kind
	}
}

// receiverQualify implements Go's receiver-method binding: "TypeName.method",
// per spec.md §4.5. The query tags the receiver's type identifier as
// @receiver.type; methods are not lexically nested in Go, so this cannot
// use ancestorQualify.
func receiverQualify(defNode *sitter.Node, name string, source []byte, extra map[string]*sitter.Node, kind Kind) (string, Kind) {
	recv, ok := extra["receiver.type"]
	if !ok {
		return name, kind
	}
	return nodeText(*recv, source) + "." + name, kind
}

// implQualify builds "TypeName.method" for Rust methods defined inside an
// impl block, mirroring Go's receiver-method binding via ancestor lookup
// since Rust impl methods *are* lexically nested.
func implQualify(defNode *sitter.Node, name string, source []byte, extra map[string]*sitter.Node, kind Kind) (string, Kind) {
	cur := defNode.Parent()
	for cur != nil {
		if cur.Kind() == "impl_item" {
			if typeNode := cur.ChildByFieldName("type"); typeNode != nil {
				return nodeText(*typeNode, source) + "." + name, KindMethod
			}
		}
		cur = cur.Parent()
	}
	return name, kind
}

func builtinBindings() []*binding {
	return []*binding{
		{
			languageID:    "python",
			lang:          sitter.NewLanguage(tspython.Language()),
			querySource:   pythonQuery,
			qualify:       ancestorQualify(map[string]string{"class_definition": "name"}, true),
			bodyDelimiter: ':',
		},
		{
			languageID:    "go",
			lang:          sitter.NewLanguage(tsgo.Language()),
			querySource:   goQuery,
			qualify:       receiverQualify,
			bodyDelimiter: '{',
		},
		{
			languageID:    "javascript",
			lang:          sitter.NewLanguage(tsjavascript.Language()),
			querySource:   javascriptQuery,
			qualify:       ancestorQualify(map[string]string{"class_declaration": "name"}, false),
			bodyDelimiter: '{',
		},
		{
			languageID:    "typescript",
			lang:          sitter.NewLanguage(tstypescript.LanguageTypescript()),
			querySource:   typescriptQuery,
			qualify:       ancestorQualify(map[string]string{"class_declaration": "name"}, false),
			bodyDelimiter: '{',
		},
		{
			languageID:    "java",
			lang:          sitter.NewLanguage(tsjava.Language()),
			querySource:   javaQuery,
			qualify:       ancestorQualify(map[string]string{"class_declaration": "name", "interface_declaration": "name"}, false),
			bodyDelimiter: '{',
		},
		{
			languageID:    "ruby",
			lang:          sitter.NewLanguage(tsruby.Language()),
			querySource:   rubyQuery,
			qualify:       ancestorQualify(map[string]string{"class": "name", "module": "name"}, false),
			bodyDelimiter: '\n',
		},
		{
			languageID:    "rust",
			lang:          sitter.NewLanguage(tsrust.Language()),
			querySource:   rustQuery,
			qualify:       implQualify,
			bodyDelimiter: '{',
		},
		{
			languageID:    "php",
			lang:          sitter.NewLanguage(tsphp.LanguagePHP()),
			querySource:   phpQuery,
			qualify:       ancestorQualify(map[string]string{"class_declaration": "name"}, false),
			bodyDelimiter: '{',
		},
		{
			languageID:    "c",
			lang:          sitter.NewLanguage(tsc.Language()),
			querySource:   cQuery,
			qualify:       nil,
			bodyDelimiter: '{',
		},
	}
}
