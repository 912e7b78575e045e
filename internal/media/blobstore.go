package media

import "context"

// BlobStore persists attachment bytes under a storage key produced by
// StorageKey. URL resolves a stored key to its public address.
type BlobStore interface {
	Save(ctx context.Context, key string, data []byte) error
	URL(key string) string
}
