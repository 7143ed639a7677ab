// Command create-admin seeds the first global administrator, or resets its
// password with --reset-password.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"agrovision/config"
	"agrovision/database"
	"agrovision/pkg/auth/password"
	"agrovision/pkg/logging"
	userRepoImp "agrovision/pkg/user/repositoryImp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "create-admin:", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	flagSet := pflag.NewFlagSet("create-admin", pflag.ContinueOnError)
	flagSet.StringVar(&opts.Email, "email", defaultEmail, "admin email")
	flagSet.StringVar(&opts.Name, "name", defaultName, "admin display name")
	flagSet.StringVar(&opts.Password, "password", defaultPassword, "initial password")
	flagSet.BoolVar(&opts.Reset, "reset-password", false, "reset the admin password, failure counter and lockout")
	dbPath := flagSet.String("db", "", "sqlite path (default DB_PATH)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *dbPath == "" {
		*dbPath = cfg.DBPath
	}
	logger := logging.New(cfg.LogLevel, cfg.IsProduction())
	db, err := database.OpenSQLite(*dbPath, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	return bootstrap(context.Background(), userRepoImp.New(db), password.NewHasher(cfg.BcryptCost), opts, os.Stdout)
}
