package engine

import (
	"fmt"
	"io"
	"sort"

	sqle "github.com/dolthub/go-mysql-server"
	"github.com/dolthub/go-mysql-server/memory"
	"github.com/dolthub/go-mysql-server/sql"
	"github.com/dolthub/go-mysql-server/sql/types"

	"github.com/timothyrenner/svl/datasource"
	"github.com/timothyrenner/svl/diag"
	"github.com/timothyrenner/svl/ir"
)

const databaseName = "svl"

// session wraps the relational engine instance one Compile run materializes
// datasets into and queries against.
type session struct {
	ctx *sql.Context
	eng *sqle.Engine
}

// materialize builds a fresh in-memory database, loads every file-backed
// dataset into a table, then runs every SQL-backed dataset as a
// CREATE TABLE ... AS SELECT against it — files before queries, exactly as
// original_source/svl/data_sources/sqlite.py's create_datasets orders them,
// since a SQL dataset may reference a file-backed table.
func materialize(datasets map[string]ir.DatasetSource) (*session, error) {
	ctx := sql.NewEmptyContext()
	db := memory.NewDatabase(databaseName)
	eng := sqle.NewDefault(sql.NewDatabaseProvider(db))
	s := &session{ctx: ctx, eng: eng}

	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ds := datasets[name]
		if ds.Kind != ir.DatasetFile {
			continue
		}
		table, err := datasource.LoadFile(ds.Path, name)
		if err != nil {
			return nil, newError(diag.E_SVL_DATA_LOAD, "loading dataset %s: %s", name, err)
		}
		if err := addTable(db, table); err != nil {
			return nil, newError(diag.E_SVL_DATA_LOAD, "materializing dataset %s: %s", name, err)
		}
	}

	for _, name := range names {
		ds := datasets[name]
		if ds.Kind != ir.DatasetSQL {
			continue
		}
		stmt := fmt.Sprintf("CREATE TABLE %s AS %s", name, ds.SQL)
		if _, _, err := eng.Query(ctx, stmt); err != nil {
			return nil, newError(diag.E_SVL_DATA_LOAD, "materializing view dataset %s: %s", name, err)
		}
	}

	return s, nil
}

// addTable registers one loaded Table as a memory-engine table, inferring
// each column's go-mysql-server type from the Table's own ColumnKind.
func addTable(db *memory.Database, table datasource.Table) error {
	schema := make(sql.Schema, len(table.Columns))
	for i, col := range table.Columns {
		schema[i] = &sql.Column{
			Name:     col.Name,
			Source:   table.Name,
			Type:     columnType(col.Kind),
			Nullable: true,
		}
	}

	memTable := memory.NewTable(db.BaseDatabase, table.Name, sql.NewPrimaryKeySchema(schema), nil)
	for _, row := range table.Rows {
		if err := memTable.Insert(sql.NewEmptyContext(), sql.NewRow(row...)); err != nil {
			return err
		}
	}
	db.AddTable(table.Name, memTable)
	return nil
}

func columnType(kind datasource.ColumnKind) sql.Type {
	switch kind {
	case datasource.ColumnInt64:
		return types.Int64
	case datasource.ColumnFloat64:
		return types.Float64
	default:
		return types.Text
	}
}

// run executes a query (after temporal translation) and collects its rows
// into the alias-keyed maps package shape consumes.
func (s *session) run(sqlText string) ([]map[string]any, error) {
	schema, iter, err := s.eng.Query(s.ctx, translateTemporal(sqlText))
	if err != nil {
		return nil, err
	}
	defer iter.Close(s.ctx)

	var rows []map[string]any
	for {
		row, err := iter.Next(s.ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		m := make(map[string]any, len(schema))
		for i, col := range schema {
			m[col.Name] = row[i]
		}
		rows = append(rows, m)
	}
	return rows, nil
}
