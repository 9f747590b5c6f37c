package database

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/trezcool/masomo/core"
	appfs "github.com/trezcool/masomo/fs"
)

const (
	sqliteDriver   = "sqlite"
	postgresDriver = "postgres"

	// MemoryName opens a private in-memory SQLite database.
	MemoryName = ":memory:"
)

func sqliteDSN(name string) string {
	q := make(url.Values)
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Set("_time_format", "sqlite")
	return "file:" + name + "?" + q.Encode()
}

func postgresDSN(conf *core.Config) string {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   postgresDriver,
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Open connects to the configured store and waits for it to be ready.
func Open(conf *core.Config) (*sqlx.DB, error) {
	if conf.Database.IsSQLite() {
		db, err := sqlx.Open(sqliteDriver, sqliteDSN(conf.Database.Name))
		if err != nil {
			return nil, errors.Wrap(err, "opening sqlite database")
		}
		// SQLite serializes writers anyway, and an in-memory database only lives as long as its connection.
		db.SetMaxOpenConns(1)
		return db, errors.Wrap(ping(db), "pinging sqlite database")
	}

	db, err := sqlx.Open(postgresDriver, postgresDSN(conf))
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres database")
	}
	if conf.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(conf.Database.MaxOpenConns)
	}
	return db, errors.Wrap(ping(db), "pinging postgres database")
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

func dialect(engine string) string {
	if engine == postgresDriver {
		return postgresDriver
	}
	return "sqlite3"
}

// Migrate runs the goose `command` (up, down, status, version...) with the embedded migrations of the engine.
func Migrate(db *sql.DB, engine string, command string, args ...string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect(dialect(engine)); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	if err := goose.Run(command, db, appfs.MigrationsDir(engine), args...); err != nil {
		return errors.Wrapf(err, "running migrations %q", command)
	}
	return nil
}

// MigrateUp applies every pending migration.
func MigrateUp(db *sqlx.DB, engine string) error {
	return Migrate(db.DB, engine, "up")
}
