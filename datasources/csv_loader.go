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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/google/vgrid/core/tables"
)

// CsvLoader implements DataSourceLoader for CSV files.
// All columns are loaded as strings.
//
// Required config keys:
//   - file_path: Path to the CSV file
//
// Optional config keys:
//   - has_header: "true" or "false" (default: "true")
//   - delimiter: Field delimiter (default: ",")
type CsvLoader struct{}

// NewCsvLoader creates a new CSV loader.
func NewCsvLoader() *CsvLoader {
	return &CsvLoader{}
}

// SourceType returns "csv".
func (l *CsvLoader) SourceType() string {
	return "csv"
}

type csvOptions struct {
	filePath  string
	hasHeader bool
	delimiter rune
}

func parseCsvOptions(config map[string]string) (csvOptions, error) {
	opts := csvOptions{
		filePath:  config["file_path"],
		hasHeader: config["has_header"] != "false",
		delimiter: ',',
	}
	if opts.filePath == "" {
		return opts, fmt.Errorf("file_path is required")
	}
	if d := config["delimiter"]; d != "" {
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) || r == utf8.RuneError {
			return opts, fmt.Errorf("delimiter must be a single character, got %q", d)
		}
		opts.delimiter = r
	}
	return opts, nil
}

// openCsv opens the configured file. The caller closes the file.
func openCsv(opts csvOptions) (*os.File, *csv.Reader, error) {
	file, err := os.Open(opts.filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	reader := csv.NewReader(file)
	reader.Comma = opts.delimiter
	reader.FieldsPerRecord = -1
	return file, reader, nil
}

// DiscoverSchema discovers the table schema from the CSV header.
// Without a header, columns are named col_1, col_2, ... after the first row.
func (l *CsvLoader) DiscoverSchema(config map[string]string) (*TableSchema, error) {
	opts, err := parseCsvOptions(config)
	if err != nil {
		return nil, err
	}

	file, reader, err := openCsv(opts)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Read first row to get column names
	firstRow, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if opts.hasHeader {
		return NewSchema(firstRow), nil
	}
	return NewSchema(make([]string, len(firstRow))), nil
}

// Load loads a CSV file and returns a DataTable.
func (l *CsvLoader) Load(config map[string]string, schema *TableSchema) (*tables.DataTable, error) {
	opts, err := parseCsvOptions(config)
	if err != nil {
		return nil, err
	}

	file, reader, err := openCsv(opts)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	table, err := CreateTable(schema)
	if err != nil {
		return nil, fmt.Errorf("invalid CSV schema: %w", err)
	}

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line++
		if line == 1 && opts.hasHeader {
			continue
		}
		if err := table.AppendRow(record...); err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
	}

	return table, nil
}
