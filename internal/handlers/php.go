package handlers

import "regexp"

func init() { registerLanguage(phpHandler{}) }

type phpHandler struct{}

func (phpHandler) Extensions() []string { return []string{".php"} }

func (phpHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "php",
		SeparatorsRegex: []string{
			`(?m)^\s*(abstract\s+)?class\s+\w`,
			`(?m)^\s*interface\s+\w`,
			`(?m)^\s*(public|private|protected)?\s*(static\s+)?function\s+\w`,
			`\n\n+`,
			`\n`,
		},
	}
}

var (
	phpClassPattern     = regexp.MustCompile(`(?m)^\s*(?:abstract\s+)?class\s+(\w+)`)
	phpInterfacePattern = regexp.MustCompile(`(?m)^\s*interface\s+(\w+)`)
	phpFunctionPattern  = regexp.MustCompile(`(?m)^\s*(?:public|private|protected)?\s*(?:static\s+)?function\s+(\w+)`)
)

func (phpHandler) ExtractMetadata(text string) Metadata {
	if m := phpClassPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "class", Hierarchy: m[1], LanguageID: "php"}
	}
	if m := phpInterfacePattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "interface", Hierarchy: m[1], LanguageID: "php"}
	}
	if m := phpFunctionPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "function", Hierarchy: m[1], LanguageID: "php"}
	}
	return Metadata{LanguageID: "php"}
}
