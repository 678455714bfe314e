// Package db embeds the SQL shipped with the binary.
package db

import _ "embed"

// Schema holds the DDL for every storefront table. Applied idempotently
// on startup and by seed-db.
//
//go:embed migrations/001_schema.sql
var Schema string
