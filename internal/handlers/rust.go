package handlers

import "regexp"

func init() { registerLanguage(rustHandler{}) }

type rustHandler struct{}

func (rustHandler) Extensions() []string { return []string{".rs"} }

func (rustHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "rust",
		SeparatorsRegex: []string{
			`(?m)^\s*(pub\s+)?(struct|enum|trait)\s+\w`,
			`(?m)^\s*impl(<[^>]*>)?\s+(\w+)`,
			`(?m)^\s*(pub\s+)?(async\s+)?fn\s+\w`,
			`\n\n+`,
			`\n`,
		},
	}
}

var (
	rustTypePattern = regexp.MustCompile(`(?m)^\s*(?:pub\s+)?(struct|enum|trait)\s+(\w+)`)
	rustImplPattern = regexp.MustCompile(`(?m)^\s*impl(?:<[^>]*>)?\s+(?:\w+\s+for\s+)?(\w+)`)
	rustFnPattern   = regexp.MustCompile(`(?m)^\s*(?:pub\s+)?(?:async\s+)?fn\s+(\w+)`)
)

func (rustHandler) ExtractMetadata(text string) Metadata {
	if m := rustTypePattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: m[1], Hierarchy: m[2], LanguageID: "rust"}
	}
	if impl := rustImplPattern.FindStringSubmatch(text); impl != nil {
		if fn := rustFnPattern.FindStringSubmatch(text); fn != nil {
			return Metadata{BlockType: "method", Hierarchy: impl[1] + "." + fn[1], LanguageID: "rust"}
		}
		return Metadata{BlockType: "impl", Hierarchy: impl[1], LanguageID: "rust"}
	}
	if m := rustFnPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "function", Hierarchy: m[1], LanguageID: "rust"}
	}
	return Metadata{LanguageID: "rust"}
}
