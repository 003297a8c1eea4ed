package handlers

import "regexp"

func init() { registerLanguage(pythonHandler{}) }

// pythonHandler chunks and extracts metadata for Python source.
type pythonHandler struct{}

func (pythonHandler) Extensions() []string { return []string{".py", ".pyi"} }

func (pythonHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "python",
		SeparatorsRegex: []string{
			`(?m)^class\s+\w`,
			`(?m)^(async\s+)?def\s+\w`,
			`\n\n+`,
			`\n`,
		},
	}
}

var (
	pyClassPattern = regexp.MustCompile(`(?m)^class\s+(\w+)`)
	pyDefPattern   = regexp.MustCompile(`(?m)^(?:async\s+)?def\s+(\w+)`)
	pyMethodIndent = regexp.MustCompile(`(?m)^( +)(?:async\s+)?def\s+(\w+)`)
)

func (pythonHandler) ExtractMetadata(text string) Metadata {
	if m := pyClassPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "class", Hierarchy: m[1], LanguageID: "python"}
	}
	if m := pyMethodIndent.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "method", Hierarchy: m[2], LanguageID: "python"}
	}
	if m := pyDefPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "function", Hierarchy: m[1], LanguageID: "python"}
	}
	return Metadata{LanguageID: "python"}
}
