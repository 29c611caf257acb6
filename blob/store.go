package blob

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// AssetType names a storage namespace for uploaded blobs
type AssetType string

const (
	AssetTypeOriginal  AssetType = "originals"
	AssetTypeThumbnail AssetType = "thumbnails"
)

// Object is the result of a successful upload: a permanent URL handed to
// clients and an opaque key needed to delete the underlying blob.
type Object struct {
	URL string
	Key string
}

// Store defines the interface for uploading and deleting binary assets.
// The relational store is the source of truth; blob deletion is best-effort
// at every call site, so Delete failures are logged by callers rather than
// propagated.
type Store interface {
	// Upload stores data under the given asset type and filename and returns
	// the resulting object
	Upload(ctx context.Context, assetType AssetType, filename string, data io.Reader, contentType string) (Object, error)
	// Delete removes an asset by its opaque key
	Delete(ctx context.Context, key string) error
}

// RandomFilename generates a collision-free blob filename with the given
// extension (including the dot)
func RandomFilename(ext string) string {
	return uuid.NewString() + ext
}
