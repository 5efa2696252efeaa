// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contiene las migraciones del esquema de identidad.
//
//go:embed *.sql
var FS embed.FS
