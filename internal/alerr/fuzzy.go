package alerr

import "fmt"

// levenshteinDistance computes the edit distance between two names.
// Names are compared rune by rune so non-ASCII table names work.
func levenshteinDistance(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	if a == b {
		return 0
	}
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

// FindClosestMatch returns the closest candidate within an edit distance of 3.
func FindClosestMatch(input string, candidates []string) (string, bool) {
	const maxDistance = 3

	best := ""
	bestDist := maxDistance + 1
	for _, c := range candidates {
		if d := levenshteinDistance(input, c); d < bestDist {
			bestDist = d
			best = c
		}
	}

	if bestDist <= maxDistance {
		return best, true
	}
	return "", false
}

// SuggestSimilar returns a "did you mean 'X'?" string if a close match is found,
// or an empty string otherwise.
func SuggestSimilar(input string, candidates []string) string {
	if match, ok := FindClosestMatch(input, candidates); ok {
		return fmt.Sprintf("did you mean '%s'?", match)
	}
	return ""
}

// UnknownName builds an error for a name that is not among candidates and
// attaches a "did you mean" help when one of them is close enough.
// kind is used in the message, e.g. "table" or "column".
func UnknownName(code Code, kind, name string, candidates []string) *Error {
	e := Newf(code, "unknown %s '%s'", kind, name).With(kind, name)
	if help := SuggestSimilar(name, candidates); help != "" {
		e.WithHelp(help)
	}
	return e
}
