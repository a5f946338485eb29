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

// Package demo wires a configured data source into a grid server.
package demo

import (
	"context"
	"fmt"
	"log"

	"github.com/google/vgrid/config"
	"github.com/google/vgrid/core/models"
	"github.com/google/vgrid/core/server"
	"github.com/google/vgrid/core/tables"
	"github.com/google/vgrid/datasources"
)

// App is a server together with the source it serves.
type App struct {
	Server  *server.Server
	Manager *datasources.Manager

	cfg     *config.Config
	watcher *datasources.Watcher
}

// NewManager creates a manager with the configured source registered.
func NewManager(cfg *config.Config) *datasources.Manager {
	manager := datasources.NewDefaultManager()
	manager.AddSource(&datasources.DataSource{
		Name:        cfg.Source.Name,
		Description: cfg.Source.Description,
		SourceType:  cfg.Source.Type,
		Config:      cfg.LoaderConfig(),
	})
	return manager
}

// LoadTable loads the configured source through manager, with the column
// overrides applied.
func LoadTable(cfg *config.Config, manager *datasources.Manager) (*tables.DataTable, error) {
	return loadTable(cfg, manager.LoadData)
}

// SetupServer creates a server for cfg and mounts the configured source.
func SetupServer(cfg *config.Config) (*App, error) {
	manager := NewManager(cfg)
	table, err := LoadTable(cfg, manager)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %s source %q: %d rows, %d columns", cfg.Source.Type, cfg.Source.Name, table.Length(), table.ColumnCount())

	srv, err := server.NewServer(cfg.GridOptions())
	if err != nil {
		return nil, err
	}
	srv.SetLanding(cfg.Server.Title, cfg.Server.Subtitle)
	srv.SetSessionLimits(cfg.Server.MaxSessions, cfg.Server.SessionTTL)
	srv.AddTable(server.TableEntry{
		Name:        cfg.Source.Name,
		Description: cfg.Source.Description,
		SourceType:  cfg.Source.Type,
		Table:       table,
	})
	srv.AddTable(server.TableEntry{
		Name:        models.ColumnsTableName,
		Title:       "Columns",
		Description: "Column metadata of every table",
		SourceType:  "system",
		Table:       systemColumns(cfg, table),
	})

	return &App{Server: srv, Manager: manager, cfg: cfg}, nil
}

// loadTable loads the configured source and applies the column overrides.
func loadTable(cfg *config.Config, load func(string) (*tables.DataTable, error)) (*tables.DataTable, error) {
	table, err := load(cfg.Source.Name)
	if err != nil {
		return nil, err
	}
	if len(cfg.Columns) == 0 {
		return table, nil
	}
	table, err = table.WithColumnDefs(cfg.ApplyOverrides(table.ColumnDefs()))
	if err != nil {
		return nil, fmt.Errorf("failed to apply column overrides: %w", err)
	}
	return table, nil
}

func systemColumns(cfg *config.Config, table *tables.DataTable) *tables.DataTable {
	return models.BuildColumnsTable(map[string]*tables.DataTable{cfg.Source.Name: table})
}

// Reload loads the source again and swaps it into the server. Sessions on the
// table are dropped, so the next request remounts its grid.
func (a *App) Reload() error {
	table, err := loadTable(a.cfg, a.Manager.Reload)
	if err != nil {
		return err
	}
	if err := a.Server.ReplaceTable(a.cfg.Source.Name, table); err != nil {
		return err
	}
	if err := a.Server.ReplaceTable(models.ColumnsTableName, systemColumns(a.cfg, table)); err != nil {
		return err
	}
	log.Printf("Reloaded source %q: %d rows", a.cfg.Source.Name, table.Length())
	return nil
}

// Watch reloads the source whenever its file changes, until ctx is done or
// Close is called. It returns immediately when the source is not a watched file.
func (a *App) Watch(ctx context.Context) error {
	if !a.cfg.Source.Watch {
		return nil
	}
	resolved, err := a.Manager.ResolvedConfig(a.cfg.Source.Name)
	if err != nil {
		return err
	}
	path := resolved["file_path"]
	if path == "" {
		return fmt.Errorf("source %q has no file to watch", a.cfg.Source.Name)
	}

	watcher, err := datasources.NewWatcher(path, datasources.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	a.watcher = watcher
	log.Printf("Watching %s for changes", path)

	go func() {
		for {
			select {
			case <-ctx.Done():
				watcher.Close()
				return
			case _, ok := <-watcher.Changes():
				if !ok {
					return
				}
				if err := a.Reload(); err != nil {
					log.Printf("Reload failed: %v", err)
				}
			case err, ok := <-watcher.Errors():
				if !ok {
					return
				}
				log.Printf("Watch error: %v", err)
			}
		}
	}()
	return nil
}

// Close stops the file watcher, if any.
func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Close()
}
