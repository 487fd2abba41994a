package storage

import (
	"context"
	"io"
)

// BlobStore persists raw upload payloads keyed by stored name. Metadata
// lives in the database; the store only ever sees opaque keys.
type BlobStore interface {
	// Put writes the blob under key, overwriting any previous content.
	Put(ctx context.Context, key string, body io.Reader) error

	// Open returns a reader over the blob. The caller must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing key is not an error,
	// so cascade cleanup can be retried safely.
	Delete(ctx context.Context, key string) error
}
