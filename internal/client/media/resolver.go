// Package media turns catalog records into playable URLs and display
// strings.
package media

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/vidgallery/internal/client/models"
)

// DefaultBase is the media host used when none is configured.
const DefaultBase = "https://pttvsbqwuxej.sealosgzg.site"

// Unknown is shown for a missing creation time.
const Unknown = "unknown time"

// TimestampLayout is the local-time display format.
const TimestampLayout = "2006-01-02 15:04:05"

const videosPrefix = "/uploads/videos/"

type Resolver struct {
	MediaBase string
}

func NewResolver(base string) Resolver {
	if base == "" {
		base = DefaultBase
	}
	return Resolver{MediaBase: strings.TrimRight(base, "/")}
}

// Resolve returns the playable URL of v, or "" when v has no path.
// Absolute http(s) paths are returned unchanged; anything else is reduced to
// its last path segment under the media base.
func (r Resolver) Resolve(v models.Video) string {
	p := strings.TrimSpace(v.Path)
	if p == "" {
		return ""
	}
	if isAbsolute(p) {
		return p
	}
	name := p[strings.LastIndex(p, "/")+1:]
	if name == "" {
		return ""
	}
	return strings.TrimRight(r.MediaBase, "/") + videosPrefix + name
}

func isAbsolute(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// FormatTimestamp renders epoch milliseconds in local time.
func FormatTimestamp(ms *int64) string {
	return formatIn(ms, time.Local)
}

func formatIn(ms *int64, loc *time.Location) string {
	if ms == nil || *ms == 0 {
		return Unknown
	}
	return time.UnixMilli(*ms).In(loc).Format(TimestampLayout)
}
