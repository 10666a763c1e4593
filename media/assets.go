package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// AssetStore persists generated assets under a predictable public
// directory, created on demand. Filenames are unique and collision-free.
type AssetStore struct {
	// Dir is the local directory receiving asset files.
	Dir string

	// PublicPrefix is the stable relative URL prefix under which Dir is
	// served.
	PublicPrefix string

	client *resty.Client
}

// NewAssetStore creates an asset store rooted at dir, served under
// "/assets/generated".
func NewAssetStore(dir string) *AssetStore {
	return &AssetStore{
		Dir:          dir,
		PublicPrefix: "/assets/generated",
		client: resty.New().
			SetTimeout(2 * time.Minute).
			SetRetryCount(2),
	}
}

// SaveBytes writes data to a new uniquely named file with the given
// extension and returns the absolute local path and the relative URL.
func (s *AssetStore) SaveBytes(data []byte, ext string) (string, string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create asset directory: %w", err)
	}
	name := uuid.NewString() + normalizeExt(ext)
	localPath, err := filepath.Abs(filepath.Join(s.Dir, name))
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(localPath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write asset file: %w", err)
	}
	return localPath, s.PublicPrefix + "/" + name, nil
}

// Download fetches a provider-hosted asset and stores it locally.
func (s *AssetStore) Download(ctx context.Context, url, ext string) (string, string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", "", fmt.Errorf("failed to download asset: %w", err)
	}
	if resp.IsError() {
		return "", "", fmt.Errorf("failed to download asset: status %d", resp.StatusCode())
	}
	return s.SaveBytes(resp.Body(), ext)
}

// SaveAsset persists an asset, preferring inline data over a remote URL.
func (s *AssetStore) SaveAsset(ctx context.Context, asset *Asset, ext string) (string, string, error) {
	if asset == nil {
		return "", "", fmt.Errorf("no asset to save")
	}
	if len(asset.Data) > 0 {
		return s.SaveBytes(asset.Data, ext)
	}
	if asset.URL != "" {
		return s.Download(ctx, asset.URL, ext)
	}
	return "", "", fmt.Errorf("asset has neither data nor a download URL")
}

func normalizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}
