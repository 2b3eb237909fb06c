package store

import (
	"context"
	"fmt"
	"strings"
)

// ColumnKind is the declared storage type of a column
type ColumnKind int

const (
	Text ColumnKind = iota
	Integer
	Real
	// Encoded holds a nested object or list serialized to JSON text.
	// The flattening layer encodes before the row reaches the store.
	Encoded
)

func (k ColumnKind) sqlType() string {
	switch k {
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Column is one declared column of a table
type Column struct {
	Name string
	Kind ColumnKind
}

// TableDef declares a full-refresh table: its name and its fixed column
// schema. Writers never infer columns from the data.
type TableDef struct {
	Name    string
	Columns []Column
}

// Row holds one row's values keyed by column name. Columns absent from a
// row insert as NULL.
type Row map[string]any

// ReplaceTable rebuilds a table from scratch: drop, create from the
// declared schema, insert every row, all in one transaction. On any error
// the transaction rolls back and the previous table contents survive
// untouched. An empty rows slice still leaves an empty table behind.
func (db *DB) ReplaceTable(ctx context.Context, def TableDef, rows []Row) error {
	if len(def.Columns) == 0 {
		return fmt.Errorf("table %s: no columns declared", def.Name)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning replace of %s: %w", def.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, def.Name)); err != nil {
		return fmt.Errorf("dropping %s: %w", def.Name, err)
	}
	if _, err := tx.ExecContext(ctx, def.createSQL()); err != nil {
		return fmt.Errorf("creating %s: %w", def.Name, err)
	}

	if len(rows) > 0 {
		stmt, err := tx.PrepareContext(ctx, def.insertSQL())
		if err != nil {
			return fmt.Errorf("preparing insert into %s: %w", def.Name, err)
		}
		defer stmt.Close()

		args := make([]any, len(def.Columns))
		for i, row := range rows {
			for j, col := range def.Columns {
				args[j] = row[col.Name]
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("inserting row %d into %s: %w", i, def.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace of %s: %w", def.Name, err)
	}
	return nil
}

func (d TableDef) createSQL() string {
	cols := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		cols[i] = fmt.Sprintf(`"%s" %s`, c.Name, c.Kind.sqlType())
	}
	return fmt.Sprintf(`CREATE TABLE "%s" (%s)`, d.Name, strings.Join(cols, ", "))
}

func (d TableDef) insertSQL() string {
	names := make([]string, len(d.Columns))
	marks := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = `"` + c.Name + `"`
		marks[i] = "?"
	}
	return fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`,
		d.Name, strings.Join(names, ", "), strings.Join(marks, ", "))
}

// RowCount returns the number of rows in a table
func (db *DB) RowCount(ctx context.Context, table string) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting rows in %s: %w", table, err)
	}
	return n, nil
}
