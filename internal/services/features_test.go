package services

import (
	"strings"
	"testing"
)

func TestBuildFeatures(t *testing.T) {
	raw := RawMovie{
		Title:        "Avatar",
		Overview:     "  A Marine on Pandora.  ",
		GenresJSON:   `[{"name": "Action"}, {"name": "Science Fiction"}]`,
		KeywordsJSON: `[{"name": "space war"}]`,
		CastJSON:     `[{"name": "Sam Worthington"}, {"name": "Zoe Saldana"}, {"name": "Sigourney Weaver"}, {"name": "Stephen Lang"}, {"name": "Michelle Rodriguez"}, {"name": "Giovanni Ribisi"}]`,
		CrewJSON:     `[{"name": "Stephen Rivkin", "job": "Editor"}, {"name": "James Cameron", "job": "Director"}, {"name": "Jon Landau", "job": "Director"}]`,
	}

	f := BuildFeatures(raw)

	if f.Overview != "A Marine on Pandora." {
		t.Errorf("Overview = %q, want trimmed text", f.Overview)
	}

	// Multi-word names collapse to single lowercase tokens.
	wantGenres := []string{"action", "sciencefiction"}
	if len(f.Genres) != 2 || f.Genres[0] != wantGenres[0] || f.Genres[1] != wantGenres[1] {
		t.Errorf("Genres = %v, want %v", f.Genres, wantGenres)
	}
	if len(f.Keywords) != 1 || f.Keywords[0] != "spacewar" {
		t.Errorf("Keywords = %v, want [spacewar]", f.Keywords)
	}

	// Cast is capped at the top five principal names.
	if len(f.Cast) != maxCastNames {
		t.Errorf("Cast has %d names, want %d", len(f.Cast), maxCastNames)
	}
	if f.Cast[0] != "samworthington" {
		t.Errorf("Cast[0] = %q, want samworthington", f.Cast[0])
	}

	// First crew entry with the Director job wins.
	if f.Director != "jamescameron" {
		t.Errorf("Director = %q, want jamescameron", f.Director)
	}

	for _, token := range []string{"Pandora", "action", "sciencefiction", "spacewar", "samworthington", "jamescameron"} {
		if !strings.Contains(f.Soup, token) {
			t.Errorf("Soup missing %q: %q", token, f.Soup)
		}
	}
}

func TestBuildFeatures_Degradation(t *testing.T) {
	tests := []struct {
		name string
		raw  RawMovie
	}{
		{
			name: "missing overview and empty metadata",
			raw:  RawMovie{Title: "Bare"},
		},
		{
			name: "malformed JSON lists",
			raw: RawMovie{
				Title:        "Broken",
				GenresJSON:   `not json at all`,
				KeywordsJSON: `[{"name": unterminated`,
				CastJSON:     `{}`,
				CrewJSON:     `[[]]`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := BuildFeatures(tt.raw)
			if f.Overview != "" {
				t.Errorf("Overview = %q, want empty", f.Overview)
			}
			if len(f.Genres) != 0 || len(f.Keywords) != 0 || len(f.Cast) != 0 {
				t.Errorf("name lists should degrade to empty: %+v", f)
			}
			if f.Director != "" {
				t.Errorf("Director = %q, want empty", f.Director)
			}
		})
	}
}

func TestCollapseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"James Cameron", "jamescameron"},
		{"  Zoe   Saldana ", "zoesaldana"},
		{"Cher", "cher"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := collapseName(tt.in); got != tt.want {
			t.Errorf("collapseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDirector_FirstMatchWins(t *testing.T) {
	crew := `[{"name": "A", "job": "Producer"}, {"name": "B", "job": "Director"}, {"name": "C", "job": "Director"}]`
	if got := parseDirector(crew); got != "B" {
		t.Errorf("parseDirector = %q, want B", got)
	}

	if got := parseDirector(`[{"name": "A", "job": "Producer"}]`); got != "" {
		t.Errorf("parseDirector with no director = %q, want empty", got)
	}
}
