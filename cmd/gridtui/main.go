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

// Command gridtui browses the configured data source in the terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/vgrid/config"
	"github.com/google/vgrid/core/grid"
	"github.com/google/vgrid/demo"
	"github.com/google/vgrid/tui"
)

func main() {
	configPath := flag.String("config", "vgrid.yaml", "path to the config file")
	paginate := flag.Bool("paginate", false, "show one page at a time instead of scrolling every row")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	table, err := demo.LoadTable(cfg, demo.NewManager(cfg))
	if err != nil {
		log.Fatalf("Failed to load source %q: %v", cfg.Source.Name, err)
	}

	// one terminal line per row
	opts := cfg.GridOptions()
	opts.Paginate = *paginate
	opts.RowHeight = 1
	opts.ViewportHeight = 20
	engine, err := grid.New(table, opts)
	if err != nil {
		log.Fatalf("Failed to create grid: %v", err)
	}

	title := fmt.Sprintf("%s (%d rows, %d columns)", cfg.Source.Name, table.Length(), table.ColumnCount())
	if _, err := tea.NewProgram(tui.New(engine, title), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "gridtui: %v\n", err)
		os.Exit(1)
	}
}
