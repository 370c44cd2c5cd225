// Package datasource loads SVL's file-backed datasets (CSV and Parquet) off
// disk into an engine-agnostic columnar Table, which the pipeline driver
// (C9, package engine) then materializes into the relational engine.
//
// File format is dispatched purely on extension, matching
// original_source/svl/data_sources/sqlite.py's file_to_sqlite.
package datasource

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ColumnKind is the inferred SQL-ish type of a loaded column.
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnInt64
	ColumnFloat64
)

// Column names one of a Table's columns and its inferred kind.
type Column struct {
	Name string
	Kind ColumnKind
}

// Table is a loaded dataset: its column schema plus every row's values, in
// the same column order as Columns.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// LoadFile loads the file at path into a Table named table, dispatching on
// the file extension: ".parquet" loads through the columnar Parquet reader,
// everything else is treated as CSV.
func LoadFile(path, table string) (Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return loadParquet(path, table)
	}
	return loadCSV(path, table)
}

// inferKind walks every value observed for a column and infers the
// narrowest kind that fits all of them: int64 if every value parses as an
// integer, float64 if every value parses as a number, else text.
func inferKind(values []string) ColumnKind {
	kind := ColumnInt64
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			continue
		}
		if kind == ColumnInt64 {
			kind = ColumnFloat64
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			continue
		}
		return ColumnText
	}
	return kind
}

func convert(raw string, kind ColumnKind) (any, error) {
	switch kind {
	case ColumnInt64:
		if raw == "" {
			return int64(0), nil
		}
		return strconv.ParseInt(raw, 10, 64)
	case ColumnFloat64:
		if raw == "" {
			return float64(0), nil
		}
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}

func (k ColumnKind) String() string {
	switch k {
	case ColumnInt64:
		return "int64"
	case ColumnFloat64:
		return "float64"
	default:
		return "text"
	}
}

var errNoRows = fmt.Errorf("datasource: no rows to infer a schema from")
