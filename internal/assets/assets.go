package assets

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// Materializer downloads remote images into a local assets directory
// and hands back paths suitable for embedding in Markdown files under
// the content directory.
type Materializer struct {
	client     *http.Client
	assetsDir  string
	contentDir string
}

// New creates a Materializer writing into assetsDir. Returned paths are
// relative to contentDir so they resolve from the exported Markdown.
func New(assetsDir, contentDir string) *Materializer {
	return &Materializer{
		client:     http.DefaultClient,
		assetsDir:  assetsDir,
		contentDir: contentDir,
	}
}

// Materialize downloads the image at url and persists it under a
// unique filename, returning the relative path from the content
// directory to the stored file. The filename combines the current epoch
// millis with a random suffix so repeated downloads never collide; the
// extension is always .png regardless of the actual image format.
// Errors are returned to the caller, which decides how to degrade.
func (m *Materializer) Materialize(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("image block has no URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image: status code %d", resp.StatusCode)
	}

	filename := fmt.Sprintf("notion-image-%d-%s.png", time.Now().UnixMilli(), randomSuffix(5))
	target := filepath.Join(m.assetsDir, filename)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}

	rel, err := filepath.Rel(m.contentDir, target)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative asset path: %w", err)
	}

	// Markdown wants forward slashes even on Windows.
	return filepath.ToSlash(rel), nil
}

func randomSuffix(length int) string {
	suffix := make([]byte, length)
	for i := range suffix {
		suffix[i] = base36[rand.Intn(len(base36))]
	}
	return string(suffix)
}
