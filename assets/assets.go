// Package assets embeds the static data shipped with the binaries.
package assets

import "embed"

// Questions holds the subject question banks under questions/*.json.
//
//go:embed questions/*.json
var Questions embed.FS
