// Package schemas embeds the JSON schemas for every event this service
// publishes, so validation never depends on the working directory.
package schemas

import "embed"

//go:embed events
var FS embed.FS
