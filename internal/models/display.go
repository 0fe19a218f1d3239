package models

// DisplayRecord is the presentation-layer shape of a movie. Numeric fields
// that could not be parsed from the source data are omitted rather than
// surfaced as errors.
type DisplayRecord struct {
	Title     string   `json:"title"`
	PosterURL string   `json:"poster_url"`
	TMDBLink  string   `json:"tmdb_link,omitempty"`
	Overview  string   `json:"overview"`
	Rating    *float64 `json:"rating,omitempty"`
	Year      string   `json:"year,omitempty"`
	ID        *int     `json:"id,omitempty"`
}

// SearchResponse is the serving output for one query: the ranked display
// records plus which resolution strategy produced them.
type SearchResponse struct {
	Query         string          `json:"query"`
	ResolvedTitle string          `json:"resolved_title,omitempty"`
	Method        string          `json:"method"`
	Results       []DisplayRecord `json:"results"`
}
