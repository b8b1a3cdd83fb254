package teamname

import "strings"

const (
	minSharedWordLen = 4
	minSharedWords   = 2
)

// Normalize lower-cases the name, trims it and collapses inner whitespace.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Match reports whether two team names likely refer to the same team.
// Names match when equal after normalization, when either contains the other,
// or when they share at least two words longer than three characters.
// The relation is symmetric but not transitive.
func Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	words := make(map[string]struct{})
	for _, w := range strings.Split(nb, " ") {
		words[w] = struct{}{}
	}

	shared := 0
	for _, w := range strings.Split(na, " ") {
		if len([]rune(w)) < minSharedWordLen {
			continue
		}
		if _, ok := words[w]; ok {
			shared++
		}
	}
	return shared >= minSharedWords
}
