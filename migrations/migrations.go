// Package migrations embeds the storefront schema migrations. Files are
// applied in lexical order by database.RunMigrations at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
