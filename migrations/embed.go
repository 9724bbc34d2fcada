// Package migrations embeds the Postgres schema for indents and users.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
