// Package dbmigrations exposes the embedded SQL migrations for the snapshot store.
package dbmigrations

import "embed"

// Files contains the embedded SQL migrations bundled into teamcowboy binaries.
//
//go:embed *.sql
var Files embed.FS
