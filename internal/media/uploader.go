package media

import "context"

// Uploader stores a local file in external media hosting and returns the
// public URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
