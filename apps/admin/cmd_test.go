package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/core/user"
	"github.com/trezcool/masomo/storage/database/sqlxstore"
	"github.com/trezcool/masomo/tests"
)

const testPwd = "Mas0mo!Pwd"

func setup(t *testing.T) *commandLine {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	return &commandLine{
		conf:     testutil.NewConfig(),
		db:       testutil.OpenDB(t),
		logger:   testutil.NewLogger(t),
		validate: validate,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func (tt cliTest) check(t *testing.T, err error) {
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, errors.Cause(err))
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Equal(t, tt.wantErrStr, err.Error())
		}
	default:
		assert.NoError(t, err)
	}
}

func mockPassword(pwd string) func() {
	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
	return func() { readPasswordFunc = orig }
}

func Test_commandLine_run(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	orig := gooseRunFunc
	defer func() { gooseRunFunc = orig }()
	gooseRunFunc = func(db *sql.DB, engine, command string, args ...string) error {
		if engine != "sqlite" {
			return fmt.Errorf("unexpected engine %q", engine)
		}
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	testutil.CreateUser(t, cli.db, "taken", "Taken User", testPwd, user.RoleTeacher)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "missing role", args: []string{"adduser", "-username", "awe", "-name", "Awe"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "jdoe", "-name", "John Doe", "-role", user.RoleAdmin}, wantErr: errHelp},
		{name: "invalid role", args: []string{"adduser", "-username", "jdoe", "-name", "John Doe", "-role", "Janitor"}, extra: extra{pwd: testPwd}, wantErrStr: "Key: 'NewUser.role' Error:Field validation for 'role' failed on the 'role' tag"},
		{name: "username taken", args: []string{"adduser", "-username", "Taken", "-name", "John Doe", "-role", user.RoleAdmin}, extra: extra{pwd: testPwd}, wantErrStr: user.ErrUsernameExists.Error()},
		{name: "created", args: []string{"adduser", "-username", "jdoe", "-name", "John Doe", "-role", user.RoleAdmin}, extra: extra{pwd: testPwd}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pwd string
			if ex, ok := tt.extra.(extra); ok {
				pwd = ex.pwd
			}
			defer mockPassword(pwd)()

			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}

	repo := sqlxstore.NewRepository[user.User](cli.db.NewContext())
	usr, err := user.GetByUsername(context.Background(), repo, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", usr.FullName)
	assert.Equal(t, user.RoleAdmin, usr.Role)
	assert.NoError(t, usr.CheckPassword(testPwd))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	usr := testutil.CreateUser(t, cli.db, "awe", "Awe Sum", testPwd, user.RoleTeacher)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "N3w!Passw0rd"}, wantErr: core.ErrNotFound},
		{name: "weak password", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "short"}, wantErrStr: "password must contain at least 8 characters"},
		{name: "reset", args: []string{"resetpassword", "-username", "AWE"}, extra: extra{pwd: "N3w!Passw0rd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pwd string
			if ex, ok := tt.extra.(extra); ok {
				pwd = ex.pwd
			}
			defer mockPassword(pwd)()

			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}

	repo := sqlxstore.NewRepository[user.User](cli.db.NewContext())
	refreshed, err := repo.Get(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(refreshed.PasswordHash, usr.PasswordHash), "failed to update new password")
	assert.NoError(t, refreshed.CheckPassword("N3w!Passw0rd"))
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, cli.run([]string{"admin", "seed"}))
	}

	levels, err := school.Levels(ctx, sqlxstore.NewRepository[school.Level](cli.db.NewContext()))
	require.NoError(t, err)
	assert.Len(t, levels, 3)
}
