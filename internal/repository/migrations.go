package repository

import "embed"

// Migrations holds the golang-migrate files for the Postgres schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS
