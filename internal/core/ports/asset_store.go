package ports

import (
	"context"
	"io"
)

// AssetStore uploads user-provided assets (avatar, cover image) to an external
// object store and returns a public URL. A failed upload is a hard
// precondition failure for registration; nothing is rolled back here.
type AssetStore interface {
	Upload(ctx context.Context, prefix, contentType string, body io.Reader) (string, error)
}
