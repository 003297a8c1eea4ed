package handlers

import "regexp"

func init() { registerLanguage(yamlHandler{}) }

// yamlHandler provides generic chunking for plain YAML. Grammar handlers
// (e.g. githubActionsGrammar) override this for files matching their
// path+content markers.
type yamlHandler struct{}

func (yamlHandler) Extensions() []string { return []string{".yaml", ".yml"} }

func (yamlHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "yaml",
		SeparatorsRegex: []string{
			`(?m)^---`,
			`(?m)^\w[\w-]*:`,
			`\n\n+`,
			`\n`,
		},
	}
}

var yamlTopKeyPattern = regexp.MustCompile(`(?m)^(\w[\w-]*):`)

func (yamlHandler) ExtractMetadata(text string) Metadata {
	if m := yamlTopKeyPattern.FindStringSubmatch(text); m != nil {
		return Metadata{BlockType: "key", Hierarchy: m[1], LanguageID: "yaml"}
	}
	return Metadata{LanguageID: "yaml"}
}
