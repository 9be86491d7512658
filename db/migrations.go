// Package db ships the PostgreSQL schema with the binaries.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
