package services

import (
	"sort"
	"strings"
)

// MatchMethod tags which strategy resolved a query, for UX hints like
// "showing fuzzy matches for ...".
type MatchMethod string

const (
	MatchExact           MatchMethod = "exact"
	MatchCaseInsensitive MatchMethod = "case-insensitive"
	MatchFuzzy           MatchMethod = "fuzzy"
	MatchFuzzyLower      MatchMethod = "fuzzy-lower"
	MatchGenreFallback   MatchMethod = "genre-fallback"
	MatchNone            MatchMethod = "none"
)

// Fuzzy matching bounds. The ratio floor keeps the last-resort stage from
// returning wildly unrelated titles; the candidate cap bounds the work of
// ranking them.
const (
	fuzzyRatioFloor   = 0.65
	fuzzyCandidateCap = 5
)

// genreTokens are query terms that denote a category rather than a title.
// The caller routes these straight to keyword search: a category query
// should broaden to many movies, not narrow to one.
var genreTokens = map[string]struct{}{
	"action": {}, "horror": {}, "romance": {}, "thriller": {}, "crime": {},
	"comedy": {}, "adventure": {}, "animation": {}, "drama": {},
	"fantasy": {}, "sci-fi": {}, "scifi": {}, "family": {}, "mystery": {},
	"war": {}, "western": {}, "documentary": {}, "musical": {},
	"biography": {}, "history": {},
}

// IsGenreToken reports whether the trimmed, lowercased query is a known
// category term.
func IsGenreToken(query string) bool {
	_, ok := genreTokens[strings.ToLower(strings.TrimSpace(query))]
	return ok
}

// Resolver maps a free-text query to exactly one canonical catalog title,
// or declares no match.
type Resolver struct {
	lib *Library
}

func NewResolver(lib *Library) *Resolver {
	return &Resolver{lib: lib}
}

// Resolve runs the matching cascade and stops at the first stage that
// succeeds: exact key, case-insensitive key, fuzzy against the canonical
// titles, fuzzy against the lowercased titles. Case-insensitive runs
// before fuzzy because it is cheaper and strictly more precise; fuzzy is
// bounded by fuzzyRatioFloor.
func (r *Resolver) Resolve(query string) (string, MatchMethod) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", MatchNone
	}

	if _, ok := r.lib.titleIndex[q]; ok {
		return q, MatchExact
	}

	low := strings.ToLower(q)
	if title, ok := r.lib.lowerToTitle[low]; ok {
		return title, MatchCaseInsensitive
	}

	if matches := closeMatches(q, r.lib.allTitles, fuzzyCandidateCap, fuzzyRatioFloor); len(matches) > 0 {
		return matches[0], MatchFuzzy
	}

	lowered := make([]string, len(r.lib.allTitles))
	for i, t := range r.lib.allTitles {
		lowered[i] = strings.ToLower(t)
	}
	if matches := closeMatches(low, lowered, fuzzyCandidateCap, fuzzyRatioFloor); len(matches) > 0 {
		if title, ok := r.lib.lowerToTitle[matches[0]]; ok {
			return title, MatchFuzzyLower
		}
	}

	return "", MatchNone
}

// closeMatches returns up to n candidates whose similarity ratio to query
// is at least cutoff, best first. Ranking is stable: equal ratios keep the
// candidate order of the input slice.
func closeMatches(query string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		text  string
		ratio float64
	}

	var hits []scored
	for _, c := range candidates {
		if ratio := similarityRatio(query, c); ratio >= cutoff {
			hits = append(hits, scored{text: c, ratio: ratio})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].ratio > hits[j].ratio
	})
	if len(hits) > n {
		hits = hits[:n]
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.text
	}
	return out
}

// similarityRatio is the normalized edit-distance similarity of two
// strings: 1 - levenshtein(a, b) / max(len(a), len(b)), computed over
// runes. Identical strings score 1, disjoint strings approach 0.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}

	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes the edit distance with a single-row DP table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
