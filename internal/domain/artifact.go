package domain

import "context"

// ArtifactStore persists opaque payment-proof artifacts and returns a
// reference to be stored on the order.
type ArtifactStore interface {
	Store(ctx context.Context, filename string, data []byte) (string, error)
}
