// Package migrations embeds the SQL migration files so the goose
// programmatic API can run them from the binary in tests and at server
// bootstrap, without relying on a filesystem path at runtime.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass this to goose.NewProvider / goose.UpFS.
//
//go:embed *.sql
var FS embed.FS
