package object

import (
	"context"
	"io"
)

// ObjectStore is the storage collaborator for raw document bytes. A Document's
// storage ref is owned solely by the document that created it; Delete releases
// the underlying bytes.
type ObjectStore interface {
	Put(ctx context.Context, ownerID string, fileName string, r io.Reader) (storageRef string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageRef string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageRef string) error
}
