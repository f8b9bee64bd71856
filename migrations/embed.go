// Package migrations embeds the versioned schema files for each storage engine.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
