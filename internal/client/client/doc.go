// Package client talks to the video catalog API and bootstraps the local
// session database.
//
// # Overview
//
//  1. Client is the transport-agnostic contract: List, Create, Update and
//     Delete. Every call returns the decoded response envelope; callers
//     branch on its Code, never on the HTTP status.
//  2. HTTPClient implements it over net/http. Uploads are streamed as
//     multipart bodies and report integer progress percentages.
//  3. OpenStore and RunMigrations open the sqlite session store and apply the
//     embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable; bodies that are not a JSON
// envelope wrap ErrBadResponse. A decoded envelope with a non-zero code is
// not an error at this layer: use Check to turn it into an *APIError.
package client
