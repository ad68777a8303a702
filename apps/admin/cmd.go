package main

import (
	"errors"
	"flag"
	"fmt"

	"classhub/core/class"
	"classhub/core/student"
	"classhub/services/roster"
)

var (
	readRosterFunc = roster.ReadFile // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	classes  *class.Service
	students *student.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - apply pending database migrations (postgres storage only)")
	fmt.Println("  addclass -name NAME [-grade 1..12] [-year YEAR] - create a class")
	fmt.Println("  import -class CLASSID -file PATH [-space SPACEID] - bulk import students from a CSV/XLSX roster")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addClassCmd := flag.NewFlagSet("addclass", flag.ExitOnError)
	addClassName := addClassCmd.String("name", "", "The class name.")
	addClassGrade := addClassCmd.Int("grade", 0, "The grade level, 1 to 12.")
	addClassYear := addClassCmd.String("year", "", "The academic year, eg. 2026-2027.")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importClass := importCmd.String("class", "", "The id of the class to import into.")
	importFile := importCmd.String("file", "", "Path to the roster file (.csv or .xlsx).")
	importSpace := importCmd.String("space", "", "Learning space id to place imported students in.")

	switch args[1] {
	case "migrate":
		return cli.migrate()
	case "addclass":
		if err := addClassCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addClassName == "" {
			addClassCmd.Usage()
			return errHelp
		}
		return cli.addClass(*addClassName, *addClassGrade, *addClassYear)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importClass == "" || *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importStudents(*importClass, *importFile, *importSpace)
	default:
		cli.printUsage()
		return errHelp
	}
}
