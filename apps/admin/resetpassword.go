package main

import (
	"context"

	"github.com/trezcool/masomo/core/user"
	"github.com/trezcool/masomo/storage/database/sqlxstore"
)

func (cli *commandLine) resetPassword(ctx context.Context, uname, pwd string) error {
	repo := sqlxstore.NewRepository[user.User](cli.db.NewContext())
	usr, err := user.GetByUsername(ctx, repo, uname)
	if err != nil {
		return err
	}
	if err = user.ValidatePassword(usr, pwd); err != nil {
		return err
	}
	return user.ResetPassword(ctx, repo, usr, pwd)
}
