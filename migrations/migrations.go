// Package migrations встраивает SQL-миграции PostgreSQL в бинарник.
// Файлы называются <version>_<name>.up.sql / .down.sql.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
