package handlers

import "regexp"

func init() {
	registerLanguage(javascriptHandler{})
	registerLanguage(typescriptHandler{})
}

// javascriptHandler chunks and extracts metadata for JavaScript/JSX.
type javascriptHandler struct{}

func (javascriptHandler) Extensions() []string { return []string{".js", ".jsx", ".mjs", ".cjs"} }

func (javascriptHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "javascript",
		SeparatorsRegex: []string{
			`(?m)^export\s+(default\s+)?class\s+\w`,
			`(?m)^class\s+\w`,
			`(?m)^(export\s+)?(default\s+)?(async\s+)?function\s`,
			`\n\n+`,
			`\n`,
		},
	}
}

func (javascriptHandler) ExtractMetadata(text string) Metadata {
	return jsFamilyMetadata(text, "javascript")
}

// typescriptHandler reuses the JS separator rules — TypeScript is a
// syntactic superset for the chunker's purposes — but reports its own
// language_id.
type typescriptHandler struct{}

func (typescriptHandler) Extensions() []string { return []string{".ts", ".tsx"} }

func (typescriptHandler) SeparatorSpec() CustomLanguageSpec {
	spec := javascriptHandler{}.SeparatorSpec()
	spec.LanguageName = "typescript"
	spec.SeparatorsRegex = append([]string{`(?m)^(export\s+)?interface\s+\w`}, spec.SeparatorsRegex...)
	return spec
}

func (typescriptHandler) ExtractMetadata(text string) Metadata {
	if m := tsInterfacePattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "interface", Hierarchy: m[1], LanguageID: "typescript"}
	}
	return jsFamilyMetadata(text, "typescript")
}

var (
	jsClassPattern     = regexp.MustCompile(`(?m)^(?:export\s+)?(?:default\s+)?class\s+(\w+)`)
	jsMethodPattern    = regexp.MustCompile(`(?m)^\s+(?:static\s+)?(?:async\s+)?(\w+)\s*\([^)]*\)\s*\{`)
	jsFunctionPattern  = regexp.MustCompile(`(?m)^(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s+(\w+)`)
	jsArrowConstPattern = regexp.MustCompile(`(?m)^(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s+)?\(`)
	tsInterfacePattern = regexp.MustCompile(`(?m)^(?:export\s+)?interface\s+(\w+)`)
)

func jsFamilyMetadata(text, languageID string) Metadata {
	if m := jsClassPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "class", Hierarchy: m[1], LanguageID: languageID}
	}
	if m := jsFunctionPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "function", Hierarchy: m[1], LanguageID: languageID}
	}
	if m := jsArrowConstPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "function", Hierarchy: m[1], LanguageID: languageID}
	}
	if m := jsMethodPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "method", Hierarchy: m[1], LanguageID: languageID}
	}
	return Metadata{LanguageID: languageID}
}
