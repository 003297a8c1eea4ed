package handlers

import "regexp"

func init() { registerLanguage(javaHandler{}) }

type javaHandler struct{}

func (javaHandler) Extensions() []string { return []string{".java"} }

func (javaHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "java",
		SeparatorsRegex: []string{
			`(?m)^\s*(public|private|protected)?\s*(abstract\s+)?(class|interface|enum)\s+\w`,
			`(?m)^\s*(public|private|protected)?\s*(static\s+)?(final\s+)?\w[\w<>\[\], ]*\s+\w+\s*\([^)]*\)\s*\{`,
			`\n\n+`,
			`\n`,
		},
	}
}

var (
	javaTypePattern   = regexp.MustCompile(`(?m)^\s*(?:public|private|protected)?\s*(?:abstract\s+)?(class|interface|enum)\s+(\w+)`)
	javaMethodPattern = regexp.MustCompile(`(?m)^\s*(?:public|private|protected)?\s*(?:static\s+)?(?:final\s+)?[\w<>\[\], ]+\s+(\w+)\s*\([^)]*\)\s*\{`)
)

func (javaHandler) ExtractMetadata(text string) Metadata {
	if m := javaTypePattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: m[1], Hierarchy: m[2], LanguageID: "java"}
	}
	if m := javaMethodPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "method", Hierarchy: m[1], LanguageID: "java"}
	}
	return Metadata{LanguageID: "java"}
}
