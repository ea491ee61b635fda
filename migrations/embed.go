// Package migrations embeds the ordered schema migrations for every
// supported database.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
