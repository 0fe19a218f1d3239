package services

import (
	"strings"
)

// maxCastNames caps the cast contribution to the principal billed names.
const maxCastNames = 5

// MovieFeatures holds the normalized text fields derived from one raw movie
// record, ready for vectorization.
type MovieFeatures struct {
	Overview string
	Genres   []string
	Keywords []string
	Cast     []string
	Director string
	Soup     string
}

// BuildFeatures normalizes one raw record: missing overview becomes "",
// the name lists are lowercased with multi-word names collapsed to single
// tokens (so "Science Fiction" cannot cross-match "fiction" from another
// field in the bag-of-words stage), and the soup concatenates everything.
func BuildFeatures(raw RawMovie) MovieFeatures {
	f := MovieFeatures{
		Overview: strings.TrimSpace(raw.Overview),
		Genres:   collapseNames(parseNameList(raw.GenresJSON)),
		Keywords: collapseNames(parseNameList(raw.KeywordsJSON)),
		Cast:     collapseNames(parseCastList(raw.CastJSON, maxCastNames)),
		Director: collapseName(parseDirector(raw.CrewJSON)),
	}

	parts := make([]string, 0, 5)
	parts = append(parts, f.Overview)
	parts = append(parts, strings.Join(f.Genres, " "))
	parts = append(parts, strings.Join(f.Keywords, " "))
	parts = append(parts, strings.Join(f.Cast, " "))
	parts = append(parts, f.Director)
	f.Soup = strings.TrimSpace(strings.Join(parts, " "))

	return f
}

// collapseName turns a display name into one lowercase token with internal
// whitespace removed: "James Cameron" -> "jamescameron".
func collapseName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

func collapseNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if collapsed := collapseName(n); collapsed != "" {
			out = append(out, collapsed)
		}
	}
	return out
}
