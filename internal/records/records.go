package records

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// Delimiter separates columns in a records file.
const Delimiter = ';'

// NameColumn is the header that identifies each item.
const NameColumn = "name"

// Record is one row of a records file keyed by header column name.
type Record map[string]string

// Name returns the raw value of the name column.
func (r Record) Name() string {
	return r[NameColumn]
}

// ParseError reports a records file that could not be read or parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse records: %v", e.Err)
	}
	return fmt.Sprintf("parse records %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrMissingNameColumn is wrapped by ParseError when the header has no name column.
var ErrMissingNameColumn = errors.New("header has no \"name\" column")

// Parse reads the whole file at path from fs and parses it.
func Parse(fs afero.Fs, path string) ([]Record, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	recs, err := parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return recs, nil
}

// ParseReader parses records from r.
func ParseReader(r io.Reader) ([]Record, error) {
	recs, err := parse(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return recs, nil
}

func parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !hasColumn(header, NameColumn) {
		return nil, ErrMissingNameColumn
	}

	var out []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := make(Record, len(header))
		for i, column := range header {
			rec[column] = row[i]
		}
		out = append(out, rec)
	}
	return out, nil
}

func hasColumn(header []string, name string) bool {
	for _, column := range header {
		if column == name {
			return true
		}
	}
	return false
}

// Names returns the name column of every record in file order.
func Names(recs []Record) []string {
	names := make([]string, 0, len(recs))
	for _, rec := range recs {
		names = append(names, rec.Name())
	}
	return names
}

// NameSet returns the set of name values across recs.
func NameSet(recs []Record) map[string]struct{} {
	set := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		set[rec.Name()] = struct{}{}
	}
	return set
}
