// Package assets stores the binary image content referenced by photo
// records. References are opaque strings minted by Save and understood
// only by the store that produced them.
package assets

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates that the requested reference has no stored asset.
var ErrNotFound = errors.New("assets: not found")

// Store persists image bytes independently of their metadata records.
type Store interface {
	// Save persists the stream and returns a freshly minted reference.
	// The suggested name only influences the reference's extension; a
	// collision-resistant name is always generated, so an existing
	// asset is never overwritten.
	Save(ctx context.Context, r io.Reader, suggestedName string) (string, error)

	// Open returns the stored bytes for passthrough delivery.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete removes the asset. Deleting a reference that is already
	// gone is a success, never an error.
	Delete(ctx context.Context, ref string) error

	// BestEffortDelete removes the asset if it can, logging failures
	// instead of returning them. Used for post-commit cleanup where a
	// leaked asset is wasted space, not a correctness violation.
	BestEffortDelete(ctx context.Context, ref string)
}
