package handlers

import "regexp"

func init() { registerLanguage(goHandler{}) }

// goHandler chunks and extracts metadata for Go source.
type goHandler struct{}

func (goHandler) Extensions() []string { return []string{".go"} }

func (goHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "go",
		SeparatorsRegex: []string{
			`(?m)^type\s+\w+\s+(struct|interface)\s*\{`,
			`(?m)^func\s`,
			`\n\n+`,
			`\n`,
		},
	}
}

var (
	goTypePattern   = regexp.MustCompile(`(?m)^type\s+(\w+)\s+(struct|interface)\b`)
	goMethodPattern = regexp.MustCompile(`(?m)^func\s+\(\s*\w*\s*\*?(\w+)\)\s+(\w+)`)
	goFuncPattern   = regexp.MustCompile(`(?m)^func\s+(\w+)`)
)

func (goHandler) ExtractMetadata(text string) Metadata {
	if m := goTypePattern.FindStringSubmatch(text); m != nil {
		blockType := "struct"
		if m[2] == "interface" {
			blockType = "interface"
		}
		return Metadata{BlockType: blockType, Hierarchy: m[1], LanguageID: "go"}
	}
	if m := goMethodPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "method", Hierarchy: m[1] + "." + m[2], LanguageID: "go"}
	}
	if m := goFuncPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "function", Hierarchy: m[1], LanguageID: "go"}
	}
	return Metadata{LanguageID: "go"}
}
