package main

import (
	"github.com/pkg/errors"

	"classhub/core"
	"classhub/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate() error {
	if core.Conf.GetString("storageEngine") != "postgres" {
		return errors.New("migrate requires the postgres storage engine")
	}
	db, err := database.Open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return migrateFunc(db)
}
