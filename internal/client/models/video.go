// Package models defines the catalog record, the API envelope and the
// client-side upload rules.
package models

// Video is a catalog record as served by the video API. The ID is assigned
// by the server and never changes; Path is either an absolute URL or a
// server-relative file name.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path,omitempty"`
	Size      *int64 `json:"size,omitempty"`
	Filename  string `json:"filename,omitempty"`
	CreatedAt *int64 `json:"created_at,omitempty"`
}

// Playable reports whether the record carries a media path at all.
func (v Video) Playable() bool {
	return v.Path != ""
}

// Envelope wraps every API response. Code 0 is the only success signal;
// the HTTP status is not consulted.
type Envelope[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

// OK reports logical success.
func (e Envelope[T]) OK() bool {
	return e.Code == 0
}
