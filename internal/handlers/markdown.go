package handlers

import "regexp"

func init() { registerLanguage(markdownHandler{}) }

// markdownHandler splits prose documentation by header level, mirroring
// the "## header -> paragraph -> sentence" recursive-splitting idiom.
type markdownHandler struct{}

func (markdownHandler) Extensions() []string { return []string{".md", ".mdx", ".rst"} }

func (markdownHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "markdown",
		SeparatorsRegex: []string{
			`(?m)^#\s+`,
			`(?m)^##\s+`,
			`(?m)^###\s+`,
			`\n\n+`,
			`\n`,
		},
	}
}

var (
	mdH1Pattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	mdH2Pattern = regexp.MustCompile(`(?m)^##\s+(.+)$`)
	mdH3Pattern = regexp.MustCompile(`(?m)^###\s+(.+)$`)
)

func (markdownHandler) ExtractMetadata(text string) Metadata {
	if m := mdH1Pattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "section", Hierarchy: m[1], LanguageID: "markdown"}
	}
	if m := mdH2Pattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "section", Hierarchy: m[1], LanguageID: "markdown"}
	}
	if m := mdH3Pattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "subsection", Hierarchy: m[1], LanguageID: "markdown"}
	}
	return Metadata{LanguageID: "markdown"}
}
