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
	"testing"
)

func TestSampleLoader(t *testing.T) {
	loader := NewSampleLoader()
	config := map[string]string{"rows": "25", "columns": "4"}

	schema, err := loader.DiscoverSchema(config)
	if err != nil {
		t.Fatalf("DiscoverSchema: %v", err)
	}
	if got := schemaIDs(schema); !equalStringSlices(got, []string{"col_1", "col_2", "col_3", "col_4"}) {
		t.Fatalf("ids = %v", got)
	}
	if schema.Columns[2].Name != "Column 3" {
		t.Errorf("name = %q, want Column 3", schema.Columns[2].Name)
	}

	table, err := loader.Load(config, schema)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Length() != 25 {
		t.Fatalf("Length = %d, want 25", table.Length())
	}
	if v, _ := table.Value(24, "col_1"); v != "25" {
		t.Errorf("last row number = %q, want 25", v)
	}

	again, err := loader.Load(config, schema)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := 0; i < table.Length(); i++ {
		if !equalStringSlices(table.Row(i).Values(), again.Row(i).Values()) {
			t.Fatalf("row %d differs between loads", i)
		}
	}
}

func TestSampleLoaderDefaults(t *testing.T) {
	loader := NewSampleLoader()
	schema, err := loader.DiscoverSchema(nil)
	if err != nil {
		t.Fatalf("DiscoverSchema: %v", err)
	}
	if len(schema.Columns) != DefaultSampleColumns {
		t.Errorf("columns = %d, want %d", len(schema.Columns), DefaultSampleColumns)
	}
}

func TestSampleLoaderErrors(t *testing.T) {
	loader := NewSampleLoader()
	for _, config := range []map[string]string{
		{"rows": "-1"},
		{"rows": "many"},
		{"columns": "0"},
		{"seed": "x"},
	} {
		if _, err := loader.DiscoverSchema(config); err == nil {
			t.Errorf("DiscoverSchema(%v) succeeded, want error", config)
		}
	}
}
