package config

// knownFields lists the recognised top-level and nested keys in
// cocosearch.yaml, used to build "did you mean X?" suggestions when the
// strict decoder rejects an unknown field.
var knownFields = []string{
	"indexName",
	"indexing", "indexing.includePatterns", "indexing.excludePatterns",
	"indexing.languages", "indexing.chunkSize", "indexing.chunkOverlap",
	"indexing.respectGitignore",
	"search", "search.resultLimit", "search.minScore",
	"embedding", "embedding.model", "embedding.dimensions",
}

// Suggest returns the known field closest to the unrecognised field name,
// or "" if nothing is within a reasonable edit distance.
func Suggest(unknown string) string {
	best := ""
	bestDist := -1
	for _, field := range knownFields {
		d := levenshtein(unknown, field)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = field
		}
	}
	// Only suggest if the match is plausible (not wildly different).
	threshold := len(unknown)/2 + 2
	if bestDist > threshold {
		return ""
	}
	return best
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
