package main

import (
	"context"

	"github.com/trezcool/masomo/core/user"
	"github.com/trezcool/masomo/storage/database/sqlxstore"
)

// addUser validates and creates a user.User
func (cli *commandLine) addUser(ctx context.Context, uname, name, role, pwd string) error {
	nu := user.NewUser{
		Username:        uname,
		FullName:        name,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            role,
	}
	nu.Clean()
	if err := cli.validate.Struct(nu); err != nil {
		return err
	}

	usr, err := user.Create(ctx, sqlxstore.NewRepository[user.User](cli.db.NewContext()), nu, nowFunc())
	if err != nil {
		return err
	}
	cli.logger.Info("user created", map[string]interface{}{"id": usr.ID, "username": usr.Username, "role": usr.Role})
	return nil
}
