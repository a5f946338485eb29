/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Vgrid Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package datasources

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/glebarez/sqlite"
	"github.com/google/vgrid/core/tables"
)

// SqliteLoader implements DataSourceLoader for a table of a SQLite database.
// Every value is loaded as its text form; NULL becomes the empty string.
//
// Required config keys:
//   - file_path: Path to the database file
//   - table: Table (or view) to load
//
// Optional config keys:
//   - order_by: Column to sort rows by (default: rowid order)
type SqliteLoader struct{}

// NewSqliteLoader creates a new SQLite loader.
func NewSqliteLoader() *SqliteLoader {
	return &SqliteLoader{}
}

// SourceType returns "sqlite".
func (l *SqliteLoader) SourceType() string {
	return "sqlite"
}

// OpenSqlite opens a SQLite database read by the loader.
func OpenSqlite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	return db, nil
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqliteQuery(config map[string]string) (path, query string, err error) {
	path = config["file_path"]
	if path == "" {
		return "", "", fmt.Errorf("file_path is required")
	}
	table := config["table"]
	if table == "" {
		return "", "", fmt.Errorf("table is required")
	}
	query = "SELECT * FROM " + quoteIdent(table)
	if orderBy := config["order_by"]; orderBy != "" {
		query += " ORDER BY " + quoteIdent(orderBy)
	}
	return path, query, nil
}

// DiscoverSchema discovers the table schema from the result columns.
func (l *SqliteLoader) DiscoverSchema(config map[string]string) (*TableSchema, error) {
	path, query, err := sqliteQuery(config)
	if err != nil {
		return nil, err
	}
	db, err := OpenSqlite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(query + " LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("failed to query table: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	return NewSchema(names), nil
}

// Load loads every row of the table and returns a DataTable.
func (l *SqliteLoader) Load(config map[string]string, schema *TableSchema) (*tables.DataTable, error) {
	path, query, err := sqliteQuery(config)
	if err != nil {
		return nil, err
	}
	db, err := OpenSqlite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(names) != len(schema.Columns) {
		return nil, fmt.Errorf("table has %d columns, schema has %d", len(names), len(schema.Columns))
	}

	table, err := CreateTable(schema)
	if err != nil {
		return nil, fmt.Errorf("invalid SQLite schema: %w", err)
	}

	raw := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	values := make([]string, len(names))
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", table.Length(), err)
		}
		for i, v := range raw {
			values[i] = sqliteText(v)
		}
		if err := table.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return table, nil
}

// sqliteText formats a scanned SQLite value.
func sqliteText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
