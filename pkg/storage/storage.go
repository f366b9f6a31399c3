// Package storage abstracts where recording blobs live. The analysis
// pipeline only ever reads uploaded recordings, so the interface is
// read-only; writing uploads is the capture apps' side of the contract.
//
// Local is used for development and testing, S3 for deployments where
// the recording bucket is S3-compatible (AWS, MinIO, R2).
package storage

import (
	"context"
	"io"
)

// BlobStore reads recording blobs by forward-slash separated path
// relative to the store root. Implementations are safe for concurrent
// use.
type BlobStore interface {
	// Open opens the named blob for reading. The caller must close the
	// returned ReadCloser. A missing blob yields an error wrapping
	// os.ErrNotExist.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether the named blob exists.
	Exists(ctx context.Context, path string) (bool, error)
}
