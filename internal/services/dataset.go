package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// RawMovie is one joined row of the two source datasets: the movie metadata
// CSV left-joined with the credits CSV on title. Movies without a credits
// row keep empty cast/crew JSON rather than being dropped.
type RawMovie struct {
	TMDBID       int
	Title        string
	Overview     string
	GenresJSON   string
	KeywordsJSON string
	ReleaseDate  string
	VoteAverage  float64
	VoteCount    int
	Popularity   float64
	CastJSON     string
	CrewJSON     string
}

// namedEntity is the shape shared by the JSON-encoded genre, keyword, cast
// and crew lists in the source data. Fields we don't care about are ignored.
type namedEntity struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// LoadDataset reads the movie metadata CSV and the credits CSV and joins
// them on title. Rows with an empty title after trimming are skipped; all
// other per-field parse failures degrade to zero values for that field.
func LoadDataset(moviesPath, creditsPath string) ([]RawMovie, error) {
	movieRows, err := readCSV(moviesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read movies dataset: %w", err)
	}

	creditRows, err := readCSV(creditsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credits dataset: %w", err)
	}

	// First credits row per title wins, matching the movie-side dedup rule.
	credits := make(map[string]map[string]string, len(creditRows))
	for _, row := range creditRows {
		title := strings.TrimSpace(row["title"])
		if title == "" {
			continue
		}
		if _, ok := credits[title]; !ok {
			credits[title] = row
		}
	}

	movies := make([]RawMovie, 0, len(movieRows))
	skipped := 0
	for _, row := range movieRows {
		title := strings.TrimSpace(row["title"])
		if title == "" {
			skipped++
			continue
		}

		m := RawMovie{
			TMDBID:       parseIntField(row["id"]),
			Title:        title,
			Overview:     row["overview"],
			GenresJSON:   row["genres"],
			KeywordsJSON: row["keywords"],
			ReleaseDate:  strings.TrimSpace(row["release_date"]),
			VoteAverage:  parseFloatField(row["vote_average"]),
			VoteCount:    parseIntField(row["vote_count"]),
			Popularity:   parseFloatField(row["popularity"]),
		}

		if credit, ok := credits[title]; ok {
			m.CastJSON = credit["cast"]
			m.CrewJSON = credit["crew"]
		}

		movies = append(movies, m)
	}

	if skipped > 0 {
		log.Printf("Skipped %d dataset rows with empty titles", skipped)
	}

	return movies, nil
}

// readCSV loads a headered CSV into one map per row, keyed by column name.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // source files have ragged quoting in places
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parseNameList decodes a JSON list-of-dicts field into its name values.
// Malformed JSON degrades to an empty list, never an error.
func parseNameList(jsonText string) []string {
	var entities []namedEntity
	if err := json.Unmarshal([]byte(jsonText), &entities); err != nil {
		return nil
	}

	names := make([]string, 0, len(entities))
	for _, e := range entities {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return names
}

// parseCastList is parseNameList limited to the first maxCastNames entries.
func parseCastList(jsonText string, limit int) []string {
	names := parseNameList(jsonText)
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

// parseDirector returns the name of the first crew entry whose job is
// "Director", or "" when the crew has none (or fails to parse).
func parseDirector(crewJSON string) string {
	var entities []namedEntity
	if err := json.Unmarshal([]byte(crewJSON), &entities); err != nil {
		return ""
	}

	for _, e := range entities {
		if e.Job == "Director" {
			return e.Name
		}
	}
	return ""
}

func parseIntField(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parseFloatField(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
