package handlers

import "regexp"

func init() { registerLanguage(dockerfileHandler{}) }

// dockerfileHandler matches the extension-less basename sentinel
// spec.md §4.3 calls out ("the empty-extension basename sentinel for
// files like Dockerfile").
type dockerfileHandler struct{}

func (dockerfileHandler) Extensions() []string {
	return []string{"Dockerfile", "Dockerfile.dev", "Dockerfile.prod"}
}

func (dockerfileHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "dockerfile",
		SeparatorsRegex: []string{
			`(?m)^FROM\s`,
			`(?m)^(RUN|COPY|ADD|CMD|ENTRYPOINT)\s`,
			`\n\n+`,
			`\n`,
		},
	}
}

var dockerfileStagePattern = regexp.MustCompile(`(?m)^FROM\s+(\S+)(?:\s+AS\s+(\S+))?`)

func (dockerfileHandler) ExtractMetadata(text string) Metadata {
	if m := dockerfileStagePattern.FindStringSubmatch(text); m != nil {
		hierarchy := m[1]
		if m[2] != "" {
			hierarchy = m[2]
		}
		return Metadata{BlockType: "stage", Hierarchy: hierarchy, LanguageID: "dockerfile"}
	}
	return Metadata{LanguageID: "dockerfile"}
}
