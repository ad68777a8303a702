package main

import "fmt"

func (cli *commandLine) importStudents(classID, path, spaceID string) error {
	if _, err := cli.classes.Get(classID); err != nil {
		return err
	}

	rows, err := readRosterFunc(path)
	if err != nil {
		return err
	}
	res, err := cli.students.Import(classID, spaceID, rows)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d students (%d rows skipped)\n", res.Imported, res.Skipped)
	return nil
}
