package services

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// Artifact filenames under the model directory.
const (
	simMatrixFile  = "sim_matrix.gob"
	titleIndexFile = "title_index.gob"
	manifestFile   = "manifest.json"
)

// BuildManifest records what produced the persisted artifacts so operators
// can tell one build from another.
type BuildManifest struct {
	BuildID        string    `json:"build_id"`
	BuiltAt        time.Time `json:"built_at"`
	MovieCount     int       `json:"movie_count"`
	VocabularyCap  int       `json:"vocabulary_cap"`
	OverviewWeight float64   `json:"overview_weight"`
	MetadataWeight float64   `json:"metadata_weight"`
}

// simMatrixArtifact is the on-disk form of the fused matrix.
type simMatrixArtifact struct {
	N    int
	Data []float64
}

// SaveArtifacts persists the similarity space to dir. Each file is written
// to a temporary name and renamed into place so a crashed build never
// leaves a partially written artifact where the server would load it.
func SaveArtifacts(dir string, space *SimilaritySpace) (*BuildManifest, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create model dir: %w", err)
	}

	n := space.Size()
	raw := space.S.RawMatrix()
	artifact := simMatrixArtifact{N: n, Data: raw.Data}

	if err := writeGobAtomic(filepath.Join(dir, simMatrixFile), &artifact); err != nil {
		return nil, fmt.Errorf("failed to write similarity matrix: %w", err)
	}
	if err := writeGobAtomic(filepath.Join(dir, titleIndexFile), space.TitleIndex); err != nil {
		return nil, fmt.Errorf("failed to write title index: %w", err)
	}

	manifest := &BuildManifest{
		BuildID:        uuid.New().String(),
		BuiltAt:        time.Now().UTC(),
		MovieCount:     n,
		VocabularyCap:  maxVocabulary,
		OverviewWeight: overviewWeight,
		MetadataWeight: metadataWeight,
	}
	if err := writeJSONAtomic(filepath.Join(dir, manifestFile), manifest); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	return manifest, nil
}

// LoadArtifacts reads the persisted similarity matrix, title index and
// manifest from dir. A missing artifact is a startup-fatal condition for
// the caller: serving with partial data is worse than not serving.
func LoadArtifacts(dir string) (*mat.Dense, map[string]int, *BuildManifest, error) {
	var artifact simMatrixArtifact
	if err := readGob(filepath.Join(dir, simMatrixFile), &artifact); err != nil {
		return nil, nil, nil, fmt.Errorf("required artifact %s: %w", simMatrixFile, err)
	}
	if artifact.N < 0 || len(artifact.Data) != artifact.N*artifact.N {
		return nil, nil, nil, fmt.Errorf("similarity matrix artifact is corrupt: n=%d with %d values", artifact.N, len(artifact.Data))
	}

	var index map[string]int
	if err := readGob(filepath.Join(dir, titleIndexFile), &index); err != nil {
		return nil, nil, nil, fmt.Errorf("required artifact %s: %w", titleIndexFile, err)
	}

	var manifest BuildManifest
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("required artifact %s: %w", manifestFile, err)
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, nil, nil, fmt.Errorf("manifest is corrupt: %w", err)
	}

	var s *mat.Dense
	if artifact.N > 0 {
		s = mat.NewDense(artifact.N, artifact.N, artifact.Data)
	} else {
		s = &mat.Dense{}
	}

	return s, index, &manifest, nil
}

func writeGobAtomic(path string, value any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeJSONAtomic(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func readGob(path string, value any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(value)
}
