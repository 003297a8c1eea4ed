package handlers

import "regexp"

func init() { registerLanguage(rubyHandler{}) }

type rubyHandler struct{}

func (rubyHandler) Extensions() []string { return []string{".rb", "Rakefile", "Gemfile"} }

func (rubyHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "ruby",
		SeparatorsRegex: []string{
			`(?m)^\s*class\s+\w`,
			`(?m)^\s*module\s+\w`,
			`(?m)^\s*def\s+\w`,
			`\n\n+`,
			`\n`,
		},
	}
}

var (
	rubyClassPattern  = regexp.MustCompile(`(?m)^\s*class\s+(\w+)`)
	rubyModulePattern = regexp.MustCompile(`(?m)^\s*module\s+(\w+)`)
	rubyDefPattern    = regexp.MustCompile(`(?m)^\s*def\s+(?:self\.)?(\w+[?!=]?)`)
)

func (rubyHandler) ExtractMetadata(text string) Metadata {
	if m := rubyClassPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "class", Hierarchy: m[1], LanguageID: "ruby"}
	}
	if m := rubyModulePattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "module", Hierarchy: m[1], LanguageID: "ruby"}
	}
	if m := rubyDefPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "method", Hierarchy: m[1], LanguageID: "ruby"}
	}
	return Metadata{LanguageID: "ruby"}
}
