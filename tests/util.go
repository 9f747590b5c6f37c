package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/announcement"
	"github.com/trezcool/masomo/core/billing"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/core/user"
	"github.com/trezcool/masomo/storage/database"
	"github.com/trezcool/masomo/storage/database/sqlxstore"
)

func init() {
	goose.SetLogger(log.New(io.Discard, "", 0))
}

// NewConfig returns the configuration used by tests: an in-memory store and a fixed secret.
func NewConfig() *core.Config {
	return &core.Config{
		TestMode:                  true,
		Env:                       "TEST",
		Build:                     "test",
		AppName:                   "Masomo",
		LogLevel:                  "debug",
		SecretKey:                 "test-secret",
		JWTIssuer:                 "Masomo",
		JWTAudience:               "Academia",
		JWTExpirationDelta:        time.Hour,
		JWTRefreshExpirationDelta: 4 * time.Hour,
		Server: core.ServerConfig{
			Address:         ":0",
			Host:            "localhost",
			ShutdownTimeout: time.Second,
			DisableReqLogs:  true,
		},
		Database: core.DatabaseConfig{
			Engine: "sqlite",
			Name:   database.MemoryName,
		},
	}
}

// OpenDB opens a migrated, private in-memory store closed at the end of the test.
func OpenDB(t *testing.T) *sqlxstore.DB {
	t.Helper()
	conf := NewConfig()
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.MigrateUp(db, conf.Database.Engine); err != nil {
		t.Fatalf("OpenDB() failed to migrate: %v", err)
	}
	return sqlxstore.New(db)
}

type testLogger struct {
	t *testing.T
}

// NewLogger returns a core.Logger writing to the test log.
func NewLogger(t *testing.T) core.Logger {
	return testLogger{t: t}
}

func (l testLogger) log(level, msg string, args []interface{}) {
	l.t.Helper()
	l.t.Logf("%s: %s %+v", level, msg, args)
}

func (l testLogger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l testLogger) Info(msg string, args ...interface{}) { l.log("INFO", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{}) { l.log("WARN", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) {
	l.t.Helper()
	l.t.Fatalf("FATAL: %s %+v", msg, args)
}

func save(t *testing.T, db *sqlxstore.DB, e core.Entity) {
	t.Helper()
	c := db.NewContext()
	c.Add(e)
	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("saving %s failed: %v", e.TableName(), err)
	}
}

func CreateUser(t *testing.T, db *sqlxstore.DB, uname, name, pwd, role string) *user.User {
	t.Helper()
	usr := &user.User{
		Username:  uname,
		FullName:  name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	save(t, db, usr)
	return usr
}

func CreateAnnouncement(t *testing.T, db *sqlxstore.DB, title, body string, postedAt time.Time) *announcement.Announcement {
	t.Helper()
	a := announcement.New(announcement.DTO{Title: title, Body: body}, postedAt)
	save(t, db, a)
	return a
}

func CreateStatement(t *testing.T, db *sqlxstore.DB, account, amount string, details string, dueDate time.Time) *billing.Statement {
	t.Helper()
	s := &billing.Statement{
		AccountName: account,
		Amount:      decimal.RequireFromString(amount),
		Details:     null.NewString(details, details != ""),
		DueDate:     dueDate.UTC(),
	}
	save(t, db, s)
	return s
}

func CreateLevel(t *testing.T, db *sqlxstore.DB, name string) *school.Level {
	t.Helper()
	l := school.NewLevel(school.LevelDTO{Name: name}, time.Now())
	save(t, db, l)
	return l
}

func CreateGrade(t *testing.T, db *sqlxstore.DB, name string, levelID int64) *school.Grade {
	t.Helper()
	g := school.NewGrade(school.GradeDTO{Name: name, SchoolLevelID: levelID}, time.Now())
	save(t, db, g)
	return g
}
