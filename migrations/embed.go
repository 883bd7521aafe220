package migrations

import "embed"

// FS содержит SQL-миграции, применяемые через goose при старте сервиса.
//
//go:embed *.sql
var FS embed.FS
