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
	"fmt"
	"math/rand"
	"strconv"

	"github.com/google/vgrid/core/tables"
)

const (
	DefaultSampleRows    = 2000
	DefaultSampleColumns = 80
	DefaultSampleSeed    = 1
)

var sampleWords = []string{
	"amber", "birch", "cedar", "delta", "ember", "fjord", "granite", "harbor",
	"iris", "juniper", "kestrel", "lagoon", "meadow", "nimbus", "orchid", "prairie",
	"quartz", "river", "sierra", "tundra", "umber", "valley", "willow", "zephyr",
}

// SampleLoader generates a deterministic table of the requested size. The same
// config always yields the same table.
//
// Optional config keys:
//   - rows: Number of rows (default: 2000)
//   - columns: Number of columns (default: 80)
//   - seed: Random seed (default: 1)
type SampleLoader struct{}

// NewSampleLoader creates a new sample loader.
func NewSampleLoader() *SampleLoader {
	return &SampleLoader{}
}

// SourceType returns "sample".
func (l *SampleLoader) SourceType() string {
	return "sample"
}

type sampleOptions struct {
	rows    int
	columns int
	seed    int64
}

func parseSampleOptions(config map[string]string) (sampleOptions, error) {
	opts := sampleOptions{rows: DefaultSampleRows, columns: DefaultSampleColumns, seed: DefaultSampleSeed}
	if v := config["rows"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid rows %q", v)
		}
		opts.rows = n
	}
	if v := config["columns"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, fmt.Errorf("invalid columns %q", v)
		}
		opts.columns = n
	}
	if v := config["seed"]; v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid seed %q", v)
		}
		opts.seed = n
	}
	return opts, nil
}

// DiscoverSchema returns columns col_1..col_N named "Column 1".."Column N".
func (l *SampleLoader) DiscoverSchema(config map[string]string) (*TableSchema, error) {
	opts, err := parseSampleOptions(config)
	if err != nil {
		return nil, err
	}
	schema := &TableSchema{Columns: make([]*ColumnSchema, opts.columns)}
	for c := range schema.Columns {
		schema.Columns[c] = &ColumnSchema{
			ID:   fmt.Sprintf("col_%d", c+1),
			Name: fmt.Sprintf("Column %d", c+1),
		}
	}
	return schema, nil
}

// Load generates the rows. The first column holds the 1-based row number;
// the others alternate between words and numbers.
func (l *SampleLoader) Load(config map[string]string, schema *TableSchema) (*tables.DataTable, error) {
	opts, err := parseSampleOptions(config)
	if err != nil {
		return nil, err
	}
	table, err := CreateTable(schema)
	if err != nil {
		return nil, fmt.Errorf("invalid sample schema: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.seed))
	values := make([]string, len(schema.Columns))
	for r := 0; r < opts.rows; r++ {
		for c := range values {
			values[c] = sampleValue(rng, r, c)
		}
		if err := table.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func sampleValue(rng *rand.Rand, r, c int) string {
	switch {
	case c == 0:
		return strconv.Itoa(r + 1)
	case c%3 == 0:
		return strconv.Itoa(rng.Intn(100000))
	case c%3 == 1:
		return sampleWords[rng.Intn(len(sampleWords))]
	default:
		return fmt.Sprintf("%s-%d", sampleWords[rng.Intn(len(sampleWords))], r%97)
	}
}
