package handlers

// plainTextHandler is the fallback claiming everything no language or
// grammar handler claimed, per spec.md §4.3. Its metadata is always
// empty; chunking falls back to whitespace/newline splitting.
type plainTextHandler struct{}

func (plainTextHandler) Extensions() []string { return nil }

func (plainTextHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{
		LanguageName:    "",
		SeparatorsRegex: []string{`\n\n+`, `\n`, `\s+`},
	}
}

func (plainTextHandler) ExtractMetadata(string) Metadata {
	return Metadata{}
}
