// Package settings persists small string values of the local session, such
// as the last viewed video and the last upload directory.
package settings

import "context"

// Well-known keys.
const (
	KeyLastVideoID   = "feed.last_video_id"
	KeyLastUploadDir = "upload.last_dir"
)

type Repository interface {
	// Get reports ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
