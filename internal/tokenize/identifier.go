// Package tokenize splits code identifiers into their component terms and
// builds the weighted tsvector literals used for keyword search, per
// spec.md §4.6. Index-time and query-time normalisation share this single
// splitter so the two token sets always agree (spec.md §4.9).
package tokenize

import (
	"strings"
	"unicode"
)

// SplitIdentifier decomposes a camelCase, snake_case, or PascalCase
// identifier into its component terms plus the whole token with its
// delimiters removed, each lowercased. For "getUserById", "get_user_by_id", and "GetUserByID" this
// returns the same underlying term set up to casing, satisfying spec.md §8
// property 4.
func SplitIdentifier(s string) []string {
	if s == "" {
		return nil
	}

	parts := splitOnDelimiters(s)
	terms := make([]string, 0, len(parts)+1)
	seen := make(map[string]bool)

	add := func(term string) {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	for _, part := range parts {
		for _, camelPart := range splitCamel(part) {
			add(camelPart)
		}
	}
	add(squashDelimiters(s))

	return terms
}

// squashDelimiters strips the delimiters splitOnDelimiters splits on, so
// the full-token term added alongside the split components is delimiter-
// free regardless of the identifier's original casing style — otherwise
// "get_user_by_id" keeps its underscores while "getUserById" and
// "GetUserByID" collapse to "getuserbyid", and the three spellings stop
// producing the same term set (spec.md §8 property 4).
func squashDelimiters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || r == '-' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// splitOnDelimiters splits on underscores, hyphens, and dots — the
// separators used by snake_case and kebab-case identifiers and by dotted
// qualified names.
func splitOnDelimiters(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
}

// splitCamel splits a camelCase or PascalCase run into its component
// words, breaking at every lower→upper transition and at digit
// boundaries, and keeping an acronym run together as one word, split off
// from the capitalised word that follows it ("HTTPServer" → "HTTP",
// "Server").
func splitCamel(s string) []string {
	if s == "" {
		return nil
	}

	runes := []rune(s)
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = nil
		}
	}

	for i, r := range runes {
		switch {
		case i == 0:
			current = append(current, r)
		case unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]):
			// lower/digit -> upper boundary
			flush()
			current = append(current, r)
		case unicode.IsUpper(r) && unicode.IsUpper(runes[i-1]) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			// acronym -> Word boundary, e.g. "HTTPServer" at the 'S'
			flush()
			current = append(current, r)
		case unicode.IsDigit(r) && !unicode.IsDigit(runes[i-1]):
			flush()
			current = append(current, r)
		case !unicode.IsDigit(r) && unicode.IsDigit(runes[i-1]):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()

	return words
}

// ExpandIdentifiers tokenises text on whitespace and punctuation
// (treating underscore, hyphen, and dot as identifier-internal
// separators rather than boundaries), runs every resulting token through
// SplitIdentifier, and returns the component terms it finds, deduplicated
// in order of first appearance. This is how build_tsvector finds and
// splits identifiers that occur anywhere in a chunk's text, not only in
// its associated symbol name, per spec.md §4.6 ("tokenise
// whitespace/punctuation, split each identifier, and weight the
// components").
func ExpandIdentifiers(text string) []string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.')
	})

	seen := make(map[string]bool)
	var terms []string
	for _, tok := range tokens {
		for _, term := range SplitIdentifier(tok) {
			if !seen[term] {
				seen[term] = true
				terms = append(terms, term)
			}
		}
	}
	return terms
}

// HasIdentifierPattern reports whether s looks like camelCase, snake_case,
// or PascalCase, per spec.md §4.9 detection rule.
func HasIdentifierPattern(s string) bool {
	return isCamelCase(s) || isSnakeCase(s) || isPascalCase(s)
}

func isCamelCase(s string) bool {
	runes := []rune(s)
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			return true
		}
	}
	return false
}

func isSnakeCase(s string) bool {
	if !strings.Contains(s, "_") {
		return false
	}
	for i, r := range s {
		if r == '_' {
			hasBefore := i > 0 && isWordChar(rune(s[i-1]))
			hasAfter := i+1 < len(s) && isWordChar(rune(s[i+1]))
			if hasBefore && hasAfter {
				return true
			}
		}
	}
	return false
}

func isPascalCase(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// NormalizeQuery splits each whitespace-separated token of a query by
// SplitIdentifier and rejoins with spaces, for feeding into
// plainto_tsquery('simple', …), per spec.md §4.9.
func NormalizeQuery(query string) string {
	fields := strings.Fields(query)
	var out []string
	for _, f := range fields {
		terms := SplitIdentifier(f)
		if len(terms) == 0 {
			out = append(out, strings.ToLower(f))
			continue
		}
		out = append(out, terms...)
	}
	return strings.Join(out, " ")
}
