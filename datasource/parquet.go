package datasource

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

// loadParquet reads path through parquet-go's generic reader, using a
// map-typed row so the column set doesn't need to be known up front. Each
// column's parquet kind is mapped onto the same three-way ColumnKind the CSV
// loader infers, so both loaders hand engine the same shape of Table.
func loadParquet(path, table string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("datasource: opening %s: %w", path, err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[map[string]any](f)
	defer reader.Close()

	schema := reader.Schema()
	fields := schema.Fields()
	columns := make([]Column, len(fields))
	for i, field := range fields {
		columns[i] = Column{Name: field.Name(), Kind: parquetColumnKind(field.Type().Kind())}
	}

	rows := make([]map[string]any, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && n == 0 {
		return Table{}, fmt.Errorf("datasource: reading %s: %w", path, err)
	}
	rows = rows[:n]

	out := make([][]any, n)
	for j, row := range rows {
		converted := make([]any, len(columns))
		for i, col := range columns {
			converted[i] = normalizeParquetValue(row[col.Name], col.Kind)
		}
		out[j] = converted
	}

	return Table{Name: table, Columns: columns, Rows: out}, nil
}

func parquetColumnKind(k parquet.Kind) ColumnKind {
	switch k {
	case parquet.Int32, parquet.Int64:
		return ColumnInt64
	case parquet.Float, parquet.Double:
		return ColumnFloat64
	default:
		return ColumnText
	}
}

// normalizeParquetValue coerces a value read back from a generic parquet row
// into the same Go type CSV's convert() produces for the given kind, so the
// engine never has to special-case which loader a Table came from.
func normalizeParquetValue(v any, kind ColumnKind) any {
	switch kind {
	case ColumnInt64:
		switch n := v.(type) {
		case int64:
			return n
		case int32:
			return int64(n)
		}
		return int64(0)
	case ColumnFloat64:
		switch n := v.(type) {
		case float64:
			return n
		case float32:
			return float64(n)
		}
		return float64(0)
	default:
		if b, ok := v.([]byte); ok {
			return string(b)
		}
		return fmt.Sprint(v)
	}
}
