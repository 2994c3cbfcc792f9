// Package migrations embebe los archivos SQL de golang-migrate.
package migrations

import "embed"

// FS contiene las migraciones {version}_{name}.{up|down}.sql.
//
//go:embed *.sql
var FS embed.FS

// Dir es el directorio dentro de FS donde viven las migraciones.
const Dir = "."
