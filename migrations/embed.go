// Package migrations embeds the goose SQL migrations of the boarding store.
package migrations

import "embed"

// FS contains the PostgreSQL migrations, applied in file name order.
//
//go:embed *.sql
var FS embed.FS
