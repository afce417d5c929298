package migrations

import "embed"

// FS holds the SQL migrations for each relational backend, one directory per driver.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
