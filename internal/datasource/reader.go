package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source is an opened datasource: a CSV file with a header row naming the
// columns and one card per subsequent row.
type Source struct {
	Path string
	// Columns are the header names, lowercased and trimmed, with any size
	// identifier stripped from the template column.
	Columns []string
	// SizeIdentifier is the card size attached to the template column
	// ("@template:jumbo"), or "" when none was given.
	SizeIdentifier string

	records [][]string // data records, in file order
	lines   []int      // 1-based CSV row number per record
}

// Open reads and parses a datasource. The header row is normalized to
// lower case so that "Name" and "name" resolve to the same column.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening datasource: %w", err)
	}
	defer f.Close()

	return parse(f, path)
}

func parse(r io.Reader, path string) (*Source, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("datasource %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(name))
	}

	sizeIdentifier, columns := SizeIdentifierFromColumns(columns)

	src := &Source{
		Path:           path,
		Columns:        columns,
		SizeIdentifier: sizeIdentifier,
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading %s row %d: %w", path, line, err)
		}
		src.records = append(src.records, record)
		src.lines = append(src.lines, line)
	}

	return src, nil
}

// HasColumn reports whether the datasource declares the named column.
func (s *Source) HasColumn(name string) bool {
	for _, column := range s.Columns {
		if column == name {
			return true
		}
	}
	return false
}

// Rows returns every data row in file order, including commented rows;
// callers skip those via Row.Comment. Missing trailing fields are empty.
func (s *Source) Rows() []Row {
	rows := make([]Row, 0, len(s.records))
	for i, record := range s.records {
		rows = append(rows, s.row(record, s.lines[i]))
	}
	return rows
}

// RowAt returns the row with the given CSV row number (2 being the first
// data row), for resolving row references like "{{ title #6 }}".
func (s *Source) RowAt(number int) (Row, bool) {
	for i, line := range s.lines {
		if line == number {
			return s.row(s.records[i], line), true
		}
	}
	return Row{}, false
}

func (s *Source) row(record []string, line int) Row {
	data := make(map[string]string, len(s.Columns))
	for i, column := range s.Columns {
		if i < len(record) {
			data[column] = record[i]
		} else {
			data[column] = ""
		}
	}
	// A '#' at the start of the line comments the row out; since the
	// marker sits at the start of the raw line, it shows up in the first
	// field of the parsed record.
	comment := len(record) > 0 && strings.HasPrefix(strings.TrimSpace(record[0]), "#")
	return Row{Data: data, Path: s.Path, Index: line, Comment: comment}
}
