// Package roster reads bulk-import spreadsheets into normalized student
// rows. Expected column order: firstName, lastName, studentId, grade,
// dateOfBirth, gender, email, phone, address, guardianName,
// guardianContact, notes. The first row is a header and is skipped.
package roster

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"classhub/core/student"
)

var ErrUnsupportedFormat = errors.New("unsupported roster format")

// ReadFile dispatches on the file extension: .csv or .xlsx.
func ReadFile(path string) ([]student.ImportRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := openFile(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return ReadCSV(f)
	case ".xlsx":
		f, err := openFile(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return ReadXLSX(f)
	}
	return nil, ErrUnsupportedFormat
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening roster %s", path)
	}
	return f, nil
}

func ReadCSV(r io.Reader) ([]student.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv roster")
	}
	return fromRecords(records), nil
}

func ReadXLSX(r io.Reader) ([]student.ImportRow, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening xlsx roster")
	}
	defer func() { _ = book.Close() }()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx roster has no sheets")
	}
	records, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "reading xlsx roster")
	}
	return fromRecords(records), nil
}

func fromRecords(records [][]string) []student.ImportRow {
	if len(records) <= 1 {
		return nil
	}
	rows := make([]student.ImportRow, 0, len(records)-1)
	for _, rec := range records[1:] { // skip header
		rows = append(rows, student.ImportRow{
			FirstName:       cell(rec, 0),
			LastName:        cell(rec, 1),
			StudentID:       cell(rec, 2),
			Grade:           cell(rec, 3),
			DateOfBirth:     cell(rec, 4),
			Gender:          cell(rec, 5),
			Email:           cell(rec, 6),
			Phone:           cell(rec, 7),
			Address:         cell(rec, 8),
			GuardianName:    cell(rec, 9),
			GuardianContact: cell(rec, 10),
			Notes:           cell(rec, 11),
		})
	}
	return rows
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
