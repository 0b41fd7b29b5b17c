// Package web holds the embedded playback page served by the serve command.
package web

import _ "embed"

// IndexHTML is the playback page. It fetches the artifact listing from
// /api/artifacts and builds a player per file.
//
//go:embed index.html
var IndexHTML []byte
