package importer

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVFile is the parsed representation of an uploaded CSV file: the header
// row and all data rows, in file order. Header names are not required to
// be unique, a mapped name always refers to its first occurrence.
type CSVFile struct {
	Headers []string
	Rows    [][]string
}

// ReadCSV parses a whole CSV file. The first row is the header row.
func ReadCSV(f io.Reader) (*CSVFile, error) {
	reader := csv.NewReader(f)

	// Bank exports are frequently ragged, so don't enforce a fixed
	// number of fields per row
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeaderRow
	}
	if err != nil {
		return nil, fmt.Errorf("could not read the header row: %w", err)
	}

	file := CSVFile{Headers: headers}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read line in CSV: %w", err)
		}

		file.Rows = append(file.Rows, record)
	}

	return &file, nil
}

// RowCount returns the number of data rows.
func (f *CSVFile) RowCount() int {
	return len(f.Rows)
}

// Preview returns up to n rows for display.
func (f *CSVFile) Preview(n int) [][]string {
	if n > len(f.Rows) {
		n = len(f.Rows)
	}

	return f.Rows[:n]
}
