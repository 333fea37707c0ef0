package port

import "context"

// ArtifactStorage defines receipt file storage operations
type ArtifactStorage interface {
	// Save writes a receipt under the given relative path and returns the
	// URL the file will be served from
	Save(ctx context.Context, relativePath string, content []byte) (string, error)

	// Read returns the stored receipt bytes
	Read(ctx context.Context, relativePath string) ([]byte, error)

	// Exists reports whether a receipt is stored under the path
	Exists(ctx context.Context, relativePath string) bool
}
