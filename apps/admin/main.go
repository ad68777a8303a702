package main

import (
	"log"
	"os"

	"classhub/core"
	"classhub/core/class"
	"classhub/core/student"
	"classhub/services/logger"
	"classhub/storage/database"
	"classhub/storage/kvfile"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logSvc := logsvc.NewStdLogger(logger)

	// set up storage
	var store core.Store
	switch engine := core.Conf.GetString("storageEngine"); engine {
	case "postgres":
		db, err := database.Open()
		errAndDie(err)
		defer db.Close()
		store = database.NewStore(db, logSvc)
	default:
		var err error
		store, err = kvfile.New(core.Conf.GetString("dataDir"), logSvc)
		errAndDie(err)
	}

	// start CLI
	cli := commandLine{
		classes:  class.NewService(store, logSvc),
		students: student.NewService(store, logSvc),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
