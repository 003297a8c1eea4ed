package handlers

import "regexp"

func init() { registerLanguage(cHandler{}) }

type cHandler struct{}

func (cHandler) Extensions() []string { return []string{".c", ".h"} }

func (cHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "c",
		SeparatorsRegex: []string{
			`(?m)^(struct|enum|union)\s+\w+\s*\{`,
			`(?m)^[\w\*]+[ \t]+\**\w+\s*\([^;]*\)\s*\{`,
			`\n\n+`,
			`\n`,
		},
	}
}

var (
	cStructPattern   = regexp.MustCompile(`(?m)^(struct|enum|union)\s+(\w+)`)
	cFunctionPattern = regexp.MustCompile(`(?m)^[\w\*]+[ \t]+\**(\w+)\s*\([^;]*\)\s*\{`)
)

func (cHandler) ExtractMetadata(text string) Metadata {
	if m := cStructPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: m[1], Hierarchy: m[2], LanguageID: "c"}
	}
	if m := cFunctionPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "function", Hierarchy: m[1], LanguageID: "c"}
	}
	return Metadata{LanguageID: "c"}
}
