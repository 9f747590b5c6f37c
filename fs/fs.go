// Package appfs embeds the database migrations and the seed data.
package appfs

import "embed"

//go:embed migrations seed
var FS embed.FS

// MigrationsDir returns the embedded migrations directory of a database engine.
func MigrationsDir(engine string) string {
	if engine == "" {
		engine = "sqlite"
	}
	return "migrations/" + engine
}

const SchoolSeedFile = "seed/school.yaml"
