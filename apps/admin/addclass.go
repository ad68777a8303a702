package main

import (
	"fmt"

	"classhub/core/class"
)

func (cli *commandLine) addClass(name string, grade int, year string) error {
	cls, err := cli.classes.Create(class.NewClass{
		Name:         name,
		GradeLevel:   grade,
		AcademicYear: year,
	})
	if err != nil {
		return err
	}
	fmt.Printf("class %q created with id %s\n", cls.Name, cls.ID)
	return nil
}
