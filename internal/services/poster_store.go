package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// maxPosterBytes caps a single poster download; real posters are well
// under this.
const maxPosterBytes = 5 << 20

// PosterStore caches downloaded poster images on disk so they can be
// served locally instead of hotlinking the remote CDN.
type PosterStore struct {
	storageDir string
}

// NewPosterStore creates a poster store rooted at POSTER_IMAGES_DIR
// (default ./data/posters).
func NewPosterStore() *PosterStore {
	storageDir := os.Getenv("POSTER_IMAGES_DIR")
	if storageDir == "" {
		storageDir = "./data/posters"
	}

	// Ensure the storage directory exists
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		// Log error but don't fail - will fail on actual writes
		fmt.Printf("Warning: could not create poster images directory: %v\n", err)
	}

	return &PosterStore{
		storageDir: storageDir,
	}
}

// Download fetches the image at url into the store and returns the stored
// filename.
func (s *PosterStore) Download(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download poster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("poster download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPosterBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read poster body: %w", err)
	}

	return s.Save(data)
}

// Save writes image data to disk under a fresh unique filename.
func (s *PosterStore) Save(imageData []byte) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("empty image data")
	}

	filename := uuid.New().String() + ".jpg"
	filePath := filepath.Join(s.storageDir, filename)

	if err := os.WriteFile(filePath, imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to save poster image: %w", err)
	}

	return filename, nil
}

// GetStorageDir returns the storage directory path
func (s *PosterStore) GetStorageDir() string {
	return s.storageDir
}
