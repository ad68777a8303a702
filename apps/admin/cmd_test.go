package main

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classhub/core/class"
	"classhub/core/student"
	logsvc "classhub/services/logger"
	"classhub/storage/inmem"
)

func newTestCLI() *commandLine {
	store := inmem.Open()
	logSvc := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	return &commandLine{
		classes:  class.NewService(store, logSvc),
		students: student.NewService(store, logSvc),
	}
}

func TestRun_help(t *testing.T) {
	cli := newTestCLI()

	tests := []struct {
		name string
		args []string
	}{
		{"no command", []string{"admin"}},
		{"unknown command", []string{"admin", "frobnicate"}},
		{"addclass without name", []string{"admin", "addclass"}},
		{"import without flags", []string{"admin", "import"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, errHelp, cli.run(tt.args))
		})
	}
}

func TestRun_addClass(t *testing.T) {
	cli := newTestCLI()

	err := cli.run([]string{"admin", "addclass", "-name", "Grade 5 Blue", "-grade", "5", "-year", "2026-2027"})
	require.NoError(t, err)

	classes := cli.classes.GetAll()
	require.Len(t, classes, 1)
	assert.Equal(t, "Grade 5 Blue", classes[0].Name)
	assert.Equal(t, 5, classes[0].GradeLevel)
	assert.Equal(t, "2026-2027", classes[0].AcademicYear)
}

func TestRun_addClass_invalidGrade(t *testing.T) {
	cli := newTestCLI()
	err := cli.run([]string{"admin", "addclass", "-name", "Grade 99", "-grade", "99"})
	assert.Error(t, err)
	assert.Empty(t, cli.classes.GetAll())
}

func TestRun_importStudents(t *testing.T) {
	cli := newTestCLI()
	cls, err := cli.classes.Create(class.NewClass{Name: "Grade 5 Blue"})
	require.NoError(t, err)

	origReadRoster := readRosterFunc
	defer func() { readRosterFunc = origReadRoster }()
	readRosterFunc = func(path string) ([]student.ImportRow, error) {
		assert.Equal(t, "roster.csv", path)
		return []student.ImportRow{
			{FirstName: "Ada", LastName: "Byron"},
			{LastName: "Nameless"},
		}, nil
	}

	err = cli.run([]string{"admin", "import", "-class", cls.ID, "-file", "roster.csv", "-space", "sp1"})
	require.NoError(t, err)

	roster := cli.students.ByClass(cls.ID)
	require.Len(t, roster, 1, "rows without a first name are skipped")
	assert.Equal(t, "Ada", roster[0].FirstName)
	assert.Equal(t, "sp1", roster[0].SpaceID)
}

func TestRun_importStudents_unknownClass(t *testing.T) {
	cli := newTestCLI()
	err := cli.run([]string{"admin", "import", "-class", "ghost", "-file", "roster.csv"})
	assert.Equal(t, class.ErrNotFound, err)
}

func TestRun_migrate_requiresPostgres(t *testing.T) {
	cli := newTestCLI()
	err := cli.run([]string{"admin", "migrate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}
