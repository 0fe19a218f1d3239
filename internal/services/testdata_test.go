package services

import (
	"testing"

	"github.com/mlively/cinematch/backend/internal/models"
)

// fixtureRawMovies is a small catalog with enough shared genre, keyword,
// cast and director overlap to exercise ranking.
func fixtureRawMovies() []RawMovie {
	return []RawMovie{
		{
			TMDBID:   19995,
			Title:    "Avatar",
			Overview: "In the 22nd century, a paraplegic Marine is dispatched to the moon Pandora on a unique mission, but becomes torn between following orders and protecting an alien civilization.",
			GenresJSON:   `[{"id": 28, "name": "Action"}, {"id": 12, "name": "Adventure"}, {"id": 878, "name": "Science Fiction"}]`,
			KeywordsJSON: `[{"id": 1463, "name": "culture clash"}, {"id": 2964, "name": "future"}, {"id": 3386, "name": "space war"}]`,
			CastJSON:     `[{"name": "Sam Worthington"}, {"name": "Zoe Saldana"}, {"name": "Sigourney Weaver"}]`,
			CrewJSON:     `[{"name": "Stephen Rivkin", "job": "Editor"}, {"name": "James Cameron", "job": "Director"}]`,
			ReleaseDate:  "2009-12-10",
			VoteAverage:  7.2,
			Popularity:   150.4,
		},
		{
			TMDBID:   679,
			Title:    "Aliens",
			Overview: "A squad of Marine warriors is dispatched to a distant moon colony after contact is lost, and a lone survivor warns of an alien threat to civilization.",
			GenresJSON:   `[{"name": "Action"}, {"name": "Adventure"}, {"name": "Science Fiction"}]`,
			KeywordsJSON: `[{"name": "space war"}, {"name": "moon colony"}, {"name": "alien"}]`,
			CastJSON:     `[{"name": "Sigourney Weaver"}, {"name": "Michael Biehn"}]`,
			CrewJSON:     `[{"name": "James Cameron", "job": "Director"}]`,
			ReleaseDate:  "1986-07-18",
			VoteAverage:  7.7,
			Popularity:   60.9,
		},
		{
			TMDBID:   155,
			Title:    "The Dark Knight",
			Overview: "Batman raises the stakes in his war on crime, with the help of Lt. Jim Gordon and District Attorney Harvey Dent, as the Joker wreaks havoc on Gotham.",
			GenresJSON:   `[{"name": "Drama"}, {"name": "Action"}, {"name": "Crime"}, {"name": "Thriller"}]`,
			KeywordsJSON: `[{"name": "dc comics"}, {"name": "crime fighter"}, {"name": "vigilante"}]`,
			CastJSON:     `[{"name": "Christian Bale"}, {"name": "Heath Ledger"}]`,
			CrewJSON:     `[{"name": "Christopher Nolan", "job": "Director"}]`,
			ReleaseDate:  "2008-07-16",
			VoteAverage:  8.2,
			Popularity:   187.3,
		},
		{
			TMDBID:   49026,
			Title:    "The Dark Knight Rises",
			Overview: "Following the death of District Attorney Harvey Dent, Batman takes the fall for his crimes and becomes a fugitive hunted across Gotham.",
			GenresJSON:   `[{"name": "Action"}, {"name": "Crime"}, {"name": "Drama"}, {"name": "Thriller"}]`,
			KeywordsJSON: `[{"name": "dc comics"}, {"name": "vigilante"}, {"name": "terrorist"}]`,
			CastJSON:     `[{"name": "Christian Bale"}, {"name": "Tom Hardy"}]`,
			CrewJSON:     `[{"name": "Christopher Nolan", "job": "Director"}]`,
			ReleaseDate:  "2012-07-16",
			VoteAverage:  7.6,
			Popularity:   112.3,
		},
		{
			TMDBID:   28,
			Title:    "Apocalypse Now",
			Overview: "At the height of the Vietnam conflict, a special operations captain is sent upriver into Cambodia to find a renegade colonel who has gone insane.",
			GenresJSON:   `[{"name": "Drama"}, {"name": "War"}]`,
			KeywordsJSON: `[{"name": "vietnam"}, {"name": "jungle Warfare"}, {"name": "helicopter"}]`,
			CastJSON:     `[{"name": "Martin Sheen"}, {"name": "Marlon Brando"}]`,
			CrewJSON:     `[{"name": "Francis Ford Coppola", "job": "Director"}]`,
			ReleaseDate:  "1979-08-15",
			VoteAverage:  8.0,
			Popularity:   49.0,
		},
		{
			TMDBID:   38757,
			Title:    "Tangled",
			Overview: "A bandit hides in a tower and meets Rapunzel, a spirited princess with seventy feet of magical golden hair, who longs to see the floating lanterns.",
			GenresJSON:   `[{"name": "Animation"}, {"name": "Family"}]`,
			KeywordsJSON: `[{"name": "princess"}, {"name": "fairy tale"}, {"name": "musical"}]`,
			CastJSON:     `[{"name": "Mandy Moore"}, {"name": "Zachary Levi"}]`,
			CrewJSON:     `[{"name": "Nathan Greno", "job": "Director"}]`,
			ReleaseDate:  "2010-11-24",
			VoteAverage:  7.4,
			Popularity:   48.7,
		},
	}
}

// newFixtureLibrary builds a full serving library from the fixture catalog
// the same way a real offline build would.
func newFixtureLibrary(t *testing.T) *Library {
	t.Helper()

	raws := fixtureRawMovies()
	titles := make([]string, len(raws))
	features := make([]MovieFeatures, len(raws))
	rows := make([]models.Movie, len(raws))
	for i, raw := range raws {
		titles[i] = raw.Title
		features[i] = BuildFeatures(raw)
		rows[i] = models.Movie{
			RowIdx:      i,
			TMDBID:      raw.TMDBID,
			Title:       raw.Title,
			Overview:    raw.Overview,
			Genres:      joinNames(parseNameList(raw.GenresJSON)),
			Keywords:    joinNames(parseNameList(raw.KeywordsJSON)),
			ReleaseDate: raw.ReleaseDate,
			VoteAverage: raw.VoteAverage,
			Popularity:  raw.Popularity,
			Director:    parseDirector(raw.CrewJSON),
		}
	}

	space := BuildSimilaritySpace(titles, features)
	lib, err := NewLibrary(space.S, space.TitleIndex, rows)
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	return lib
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += " "
		}
		out += n
	}
	return out
}
