package blob

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements the Store interface using the local filesystem.
// Stored blobs are served back by the media asset handler, so the returned
// URL points at this server's /api/media/ route.
type LocalStorage struct {
	basePath      string // absolute path to the MEDIA_STORAGE_PATH
	publicBaseURL string // e.g. http://localhost:8080
}

// NewLocalStorage creates a new local filesystem store
func NewLocalStorage(basePath, publicBaseURL string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("blob: initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{
		basePath:      absBasePath,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// fullPath calculates the absolute path for a key and performs the security check
func (ls *LocalStorage) fullPath(key string) (string, error) {
	cleanKey := filepath.Clean(filepath.FromSlash(key))
	fullPath := filepath.Join(ls.basePath, cleanKey)

	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", key, err)
	}

	if !strings.HasPrefix(absFullPath, ls.basePath) {
		return "", fmt.Errorf("invalid key: access denied for '%s'", key)
	}

	return absFullPath, nil
}

func (ls *LocalStorage) Upload(ctx context.Context, assetType AssetType, filename string, data io.Reader, contentType string) (Object, error) {
	key := string(assetType) + "/" + filename

	fullSavePath, err := ls.fullPath(key)
	if err != nil {
		return Object{}, err
	}

	if err := os.MkdirAll(filepath.Dir(fullSavePath), 0755); err != nil {
		return Object{}, fmt.Errorf("failed to create asset directory for '%s': %w", key, err)
	}

	outFile, err := os.Create(fullSavePath)
	if err != nil {
		return Object{}, fmt.Errorf("failed to create destination file '%s': %w", fullSavePath, err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, data); err != nil {
		outFile.Close()
		os.Remove(fullSavePath)
		return Object{}, fmt.Errorf("failed to write data to '%s': %w", fullSavePath, err)
	}

	return Object{
		URL: ls.publicBaseURL + "/api/media/" + key,
		Key: key,
	}, nil
}

// Delete removes an asset file. Missing files are treated as already deleted.
func (ls *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := ls.fullPath(key)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset '%s': %w", key, err)
	}
	if err == nil {
		log.Printf("blob: deleted asset %s", fullPath)
	}
	return nil
}

// BasePath exposes the storage root for the asset server route.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}
