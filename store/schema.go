package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type (
	TableDef struct {
		Name       string
		Columns    []ColumnDef
		PrimaryKey []string
		Unique     []UniqueDef
	}

	UniqueDef struct {
		Name    string
		Columns []string
	}

	ColumnDef struct {
		Name     string
		Datatype string
	}
)

// HasUnique reports whether the table carries a unique index covering
// exactly the given column.
func (t *TableDef) HasUnique(column string) bool {
	for _, u := range t.Unique {
		if len(u.Columns) == 1 && u.Columns[0] == column {
			return true
		}
	}
	return false
}

// checkSchema refuses to run against a database where the uniqueness
// guarantees the auth layer relies on are missing.
func (d *DB) checkSchema(ctx context.Context) error {
	for _, req := range []struct {
		table  string
		column string
	}{
		{"users", "email"},
		{"tokens", "digest"},
	} {
		td, err := loadTableDef(ctx, d.db, req.table)
		if errors.Is(err, sql.ErrNoRows) {
			return SchemaMismatch{Table: req.table, Reason: "table is missing"}
		} else if err != nil {
			return fmt.Errorf("unable to inspect table %v, cause %w", req.table, err)
		}
		if !td.HasUnique(req.column) {
			return SchemaMismatch{Table: req.table, Reason: fmt.Sprintf("column %v must be unique", req.column)}
		}
	}
	return nil
}

func loadTableDef(ctx context.Context, db *sql.DB, name string) (*TableDef, error) {
	td := TableDef{
		Name: name,
	}

	type tableInfoRow struct {
		name     string
		datatype string
		pk       bool
	}
	rows, err := db.QueryContext(ctx, `select name, type, pk from pragma_table_info(?) order by name`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var row tableInfoRow
		err = rows.Scan(&row.name, &row.datatype, &row.pk)
		if err != nil {
			return nil, err
		}
		td.Columns = append(td.Columns, ColumnDef{Name: row.name, Datatype: strings.ToUpper(row.datatype)})
		if row.pk {
			td.PrimaryKey = append(td.PrimaryKey, row.name)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(td.Columns) == 0 {
		return nil, sql.ErrNoRows
	}
	uniqueIdx, err := listUniqueIndexes(ctx, db, name)
	if err != nil {
		return nil, err
	}
	for _, v := range uniqueIdx {
		udef, err := loadUniqueDef(ctx, db, v)
		if err != nil {
			return nil, err
		}
		td.Unique = append(td.Unique, udef)
	}
	return &td, nil
}

func loadUniqueDef(ctx context.Context, db *sql.DB, name string) (UniqueDef, error) {
	rows, err := db.QueryContext(ctx, `select name from pragma_index_info(?) order by name`, name)
	if err != nil {
		return UniqueDef{}, err
	}
	defer rows.Close()
	ud := UniqueDef{
		Name: name,
	}
	for rows.Next() {
		var name string
		err = rows.Scan(&name)
		if err != nil {
			return UniqueDef{}, err
		}
		ud.Columns = append(ud.Columns, name)
	}
	return ud, rows.Err()
}

// listUniqueIndexes ignores the implicit indexes sqlite creates for
// primary keys, only explicit ones are returned.
func listUniqueIndexes(ctx context.Context, db *sql.DB, name string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `select name from pragma_index_list(?) where [unique] = 1 and origin = 'c' order by name`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ret []string
	for rows.Next() {
		var name string
		err = rows.Scan(&name)
		if err != nil {
			return nil, err
		}
		ret = append(ret, name)
	}
	return ret, rows.Err()
}
