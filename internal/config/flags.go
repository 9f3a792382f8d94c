package config

import (
	"flag"
)

// parses CLI flags for the server binary
func ParseServerFlags(args []string) Flags {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	migrateOnly := fs.Bool("migrate-only", false, "apply database migrations and exit")
	skipMigrations := fs.Bool("skip-migrations", false, "start without applying database migrations")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{MigrateOnly: *migrateOnly, SkipMigrations: *skipMigrations}
}
