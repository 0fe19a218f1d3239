package services

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Vectorizer configuration. The fusion weights favor metadata overlap
// (genre/cast/director) over narrative-text overlap: shared plot vocabulary
// is a weaker recommendation signal than a shared director or genre.
const (
	maxVocabulary  = 5000
	overviewWeight = 0.4
	metadataWeight = 0.6
)

// SimilaritySpace is the immutable output of the offline similarity build:
// a fused pairwise similarity matrix over n movies plus the title lookup.
// Row i of the matrix, entry i of Titles and the TitleIndex must all refer
// to the same movie.
type SimilaritySpace struct {
	S          *mat.Dense
	Titles     []string
	TitleIndex map[string]int
}

// Size returns the number of indexed movies.
func (sp *SimilaritySpace) Size() int {
	return len(sp.Titles)
}

// tokenRe matches word tokens of two or more alphanumeric characters,
// mirroring the tokenization the original vectorizers used.
var tokenRe = regexp.MustCompile(`[a-z0-9]{2,}`)

func tokenizeDoc(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// BuildSimilaritySpace computes the fused similarity matrix for the given
// feature rows. Two spaces are built independently — a TF-IDF embedding of
// the overview text and a raw term-count embedding of the metadata soup —
// and their cosine-similarity matrices are combined as
// overviewWeight*simOverview + metadataWeight*simMeta.
// The build is deterministic for identical input.
func BuildSimilaritySpace(titles []string, features []MovieFeatures) *SimilaritySpace {
	n := len(features)

	overviews := make([][]string, n)
	soups := make([][]string, n)
	for i, f := range features {
		overviews[i] = filterStopWords(tokenizeDoc(f.Overview))
		soups[i] = filterStopWords(tokenizeDoc(f.Soup))
	}

	overviewVocab := buildVocabulary(overviews, maxVocabulary)
	soupVocab := buildVocabulary(soups, maxVocabulary)

	overviewCounts := countMatrix(overviews, overviewVocab)
	soupCounts := countMatrix(soups, soupVocab)

	applyTFIDF(overviewCounts)

	simOverview := cosineMatrix(overviewCounts)
	simMeta := cosineMatrix(soupCounts)

	fused := mat.NewDense(n, n, nil)
	fused.Scale(overviewWeight, simOverview)
	simMeta.Scale(metadataWeight, simMeta)
	fused.Add(fused, simMeta)

	return &SimilaritySpace{
		S:          fused,
		Titles:     titles,
		TitleIndex: buildTitleIndex(titles),
	}
}

// buildTitleIndex maps each title to its row. Duplicate titles keep the
// first occurrence.
func buildTitleIndex(titles []string) map[string]int {
	index := make(map[string]int, len(titles))
	for i, title := range titles {
		if _, ok := index[title]; !ok {
			index[title] = i
		}
	}
	return index
}

// buildVocabulary selects the maxFeatures most frequent terms across the
// corpus. Ties are broken lexically so that repeat builds over the same
// data select the same vocabulary.
func buildVocabulary(docs [][]string, maxFeatures int) map[string]int {
	totals := make(map[string]int)
	for _, doc := range docs {
		for _, term := range doc {
			totals[term]++
		}
	}

	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	// Column order is lexical within the selected set, again for
	// build-to-build determinism.
	sort.Strings(terms)
	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return vocab
}

// countMatrix produces the raw n×v term-count matrix for the docs over the
// given vocabulary. Out-of-vocabulary terms are dropped.
func countMatrix(docs [][]string, vocab map[string]int) *mat.Dense {
	n := len(docs)
	v := len(vocab)
	if v == 0 {
		v = 1 // keep gonum happy on degenerate corpora
	}

	m := mat.NewDense(n, v, nil)
	for i, doc := range docs {
		for _, term := range doc {
			if j, ok := vocab[term]; ok {
				m.Set(i, j, m.At(i, j)+1)
			}
		}
	}
	return m
}

// applyTFIDF rescales a count matrix in place with smoothed inverse
// document frequency: idf(t) = ln((1+n)/(1+df(t))) + 1.
func applyTFIDF(counts *mat.Dense) {
	n, v := counts.Dims()

	df := make([]int, v)
	for j := 0; j < v; j++ {
		for i := 0; i < n; i++ {
			if counts.At(i, j) > 0 {
				df[j]++
			}
		}
	}

	for j := 0; j < v; j++ {
		idf := math.Log(float64(1+n)/float64(1+df[j])) + 1
		for i := 0; i < n; i++ {
			if c := counts.At(i, j); c > 0 {
				counts.Set(i, j, c*idf)
			}
		}
	}
}

// cosineMatrix returns the n×n pairwise cosine similarity of the row
// vectors of m. Rows are L2-normalized first, so the result is just the
// normalized matrix times its own transpose. Zero rows (movies whose text
// is empty after stop-word removal) yield zero similarity everywhere,
// including the diagonal.
func cosineMatrix(m *mat.Dense) *mat.Dense {
	n, v := m.Dims()

	normalized := mat.NewDense(n, v, nil)
	row := make([]float64, v)
	for i := 0; i < n; i++ {
		mat.Row(row, i, m)
		norm := floats.Norm(row, 2)
		if norm > 0 {
			floats.Scale(1/norm, row)
		}
		normalized.SetRow(i, row)
	}

	sim := mat.NewDense(n, n, nil)
	sim.Mul(normalized, normalized.T())

	// Clamp tiny floating-point drift so entries stay within [0, 1] and
	// the diagonal is exactly 1 for non-degenerate rows.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			s := sim.At(i, j)
			if s > 1 {
				sim.Set(i, j, 1)
			} else if s < 0 {
				sim.Set(i, j, 0)
			}
		}
	}

	return sim
}
