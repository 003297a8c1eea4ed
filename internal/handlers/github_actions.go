package handlers

import (
	"path/filepath"
	"regexp"
	"strings"
)

func init() { registerGrammar(githubActionsGrammar{}) }

// githubActionsGrammar overrides the generic yamlHandler for GitHub
// Actions workflow manifests under .github/workflows/, chunking by job
// name instead of by arbitrary top-level key — the canonical example
// spec.md §4.3 gives for grammar handlers overriding a language handler.
type githubActionsGrammar struct{}

func (githubActionsGrammar) Name() string         { return "github-actions" }
func (githubActionsGrammar) BaseLanguage() string  { return "yaml" }

var workflowPathPattern = regexp.MustCompile(`(?:^|/)\.github/workflows/[^/]+\.ya?ml$`)

// actionsMarkers are content substrings that, combined with the path
// pattern, confirm a file is a workflow manifest and not some unrelated
// YAML file that happens to live under that directory.
var actionsMarkers = []string{"\non:", "\njobs:"}

func (githubActionsGrammar) Matches(path string, content []byte) bool {
	norm := filepath.ToSlash(path)
	if !workflowPathPattern.MatchString(norm) {
		return false
	}
	text := "\n" + string(content)
	for _, marker := range actionsMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func (githubActionsGrammar) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName: "github-actions",
		SeparatorsRegex: []string{
			`(?m)^jobs:`,
			`(?m)^  \w[\w-]*:`,
			`(?m)^    - (name|uses|run):`,
			`\n`,
		},
	}
}

var (
	actionsJobPattern  = regexp.MustCompile(`(?m)^  (\w[\w-]*):`)
	actionsStepPattern = regexp.MustCompile(`(?m)^    - name:\s*(.+)$`)
)

func (githubActionsGrammar) ExtractMetadata(text string) Metadata {
	if m := actionsJobPattern.FindStringSubmatch(text); m != nil {
		hierarchy := m[1]
		if step := actionsStepPattern.FindStringSubmatch(text); step != nil {
			hierarchy += "." + strings.TrimSpace(step[1])
		}
		return Metadata{BlockType: "job", Hierarchy: hierarchy, LanguageID: "github-actions"}
	}
	return Metadata{LanguageID: "github-actions"}
}
