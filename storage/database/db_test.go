package database

import (
	"io"
	"log"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/core"
)

func init() {
	goose.SetLogger(log.New(io.Discard, "", 0))
}

func TestSqliteDSN(t *testing.T) {
	dsn := sqliteDSN(MemoryName)
	assert.Equal(t, "file::memory:?_pragma=foreign_keys%281%29&_pragma=busy_timeout%285000%29&_time_format=sqlite", dsn)
}

func TestPostgresDSN(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{
		Engine:     "postgres",
		Name:       "masomo",
		Host:       "db",
		Port:       "5432",
		User:       "app",
		Password:   "pwd",
		DisableTLS: true,
	}}
	assert.Equal(t, "postgres://app:pwd@db:5432/masomo?sslmode=disable&timezone=utc", postgresDSN(conf))
}

func TestMigrate(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{Engine: "sqlite", Name: MemoryName}}
	db, err := Open(conf)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, MigrateUp(db, conf.Database.Engine))

	var tables []string
	require.NoError(t, db.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'goose_db_version' ORDER BY name"))
	assert.Equal(t, []string{"announcement", "billing_statement", "grade", "school_level", "user_account"}, tables)

	// rolling back the last migration drops the users table
	require.NoError(t, Migrate(db.DB, conf.Database.Engine, "down"))
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE name = 'user_account'"))
	assert.Zero(t, n)
}
