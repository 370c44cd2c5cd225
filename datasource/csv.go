package datasource

import (
	"encoding/csv"
	"fmt"
	"os"
)

// loadCSV reads path as a header-first CSV file: the first row names the
// columns, every subsequent row is converted per-column against a kind
// inferred by scanning that column's values up front.
func loadCSV(path, table string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("datasource: opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("datasource: reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("datasource: %s: %w", path, errNoRows)
	}

	header := records[0]
	body := records[1:]

	columns := make([]Column, len(header))
	for i, name := range header {
		values := make([]string, len(body))
		for j, row := range body {
			if i < len(row) {
				values[j] = row[i]
			}
		}
		columns[i] = Column{Name: name, Kind: inferKind(values)}
	}

	rows := make([][]any, len(body))
	for j, row := range body {
		converted := make([]any, len(header))
		for i, col := range columns {
			raw := ""
			if i < len(row) {
				raw = row[i]
			}
			v, err := convert(raw, col.Kind)
			if err != nil {
				return Table{}, fmt.Errorf("datasource: %s: row %d column %s: %w", path, j+2, col.Name, err)
			}
			converted[i] = v
		}
		rows[j] = converted
	}

	return Table{Name: table, Columns: columns, Rows: rows}, nil
}
