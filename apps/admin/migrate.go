package main

func (cli *commandLine) migrate(args []string) error {
	return gooseRunFunc(cli.db.DB.DB, cli.conf.Database.Engine, args[0], args[1:]...)
}
