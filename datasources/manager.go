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
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/vgrid/core/tables"
)

var (
	ErrUnknownSource = errors.New("unknown data source")
	ErrNoLoader      = errors.New("no loader registered")
)

// DataSource names a dataset and how to load it.
type DataSource struct {
	Name        string
	Description string
	SourceType  string
	Config      map[string]string
}

// Manager handles loading and caching of data sources.
// Sources are registered eagerly; data is loaded lazily on demand.
type Manager struct {
	mu sync.RWMutex

	// Source metadata indexed by name
	sources map[string]*DataSource

	// Cached tables indexed by source name - populated lazily
	tables map[string]*tables.DataTable

	// Registered loaders indexed by source_type
	loaders map[string]DataSourceLoader

	// Base directory for resolving relative paths
	baseDir string
}

// NewManager creates a new data source manager with no loaders.
func NewManager() *Manager {
	return &Manager{
		sources: make(map[string]*DataSource),
		tables:  make(map[string]*tables.DataTable),
		loaders: make(map[string]DataSourceLoader),
	}
}

// NewDefaultManager creates a manager with the csv, sqlite and sample loaders.
func NewDefaultManager() *Manager {
	m := NewManager()
	m.RegisterLoader(NewCsvLoader())
	m.RegisterLoader(NewSqliteLoader())
	m.RegisterLoader(NewSampleLoader())
	return m
}

// RegisterLoader registers a loader for its source type.
func (m *Manager) RegisterLoader(loader DataSourceLoader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[loader.SourceType()] = loader
}

// SetBaseDir sets the directory relative file paths are resolved against.
func (m *Manager) SetBaseDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseDir = dir
}

// AddSource registers a source. A source with the same name is replaced and
// its cached data dropped.
func (m *Manager) AddSource(source *DataSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[source.Name] = source
	delete(m.tables, source.Name)
}

// GetSourceNames returns the registered source names, sorted.
func (m *Manager) GetSourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetSource returns the source registered under name, or nil.
func (m *Manager) GetSource(name string) *DataSource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sources[name]
}

// ResolvedConfig returns the source's loader config with relative file paths
// resolved against the base directory.
func (m *Manager) ResolvedConfig(sourceName string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	source, ok := m.sources[sourceName]
	if !ok {
		return nil, fmt.Errorf("source %q: %w", sourceName, ErrUnknownSource)
	}
	return resolveConfigPaths(source.Config, m.baseDir), nil
}

// LoadData returns the table for a source.
// Returns cached data if already loaded; otherwise loads from the source.
//
// The loading process:
// 1. Loader discovers the schema from the data source (column names)
// 2. Loader creates the table with that schema
func (m *Manager) LoadData(sourceName string) (*tables.DataTable, error) {
	// Check cache first (with read lock)
	m.mu.RLock()
	if table, ok := m.tables[sourceName]; ok {
		m.mu.RUnlock()
		return table, nil
	}
	m.mu.RUnlock()
	return m.load(sourceName)
}

// Reload loads a source again, bypassing and then refreshing the cache. On
// error the previously cached table stays in place.
func (m *Manager) Reload(sourceName string) (*tables.DataTable, error) {
	return m.load(sourceName)
}

func (m *Manager) load(sourceName string) (*tables.DataTable, error) {
	m.mu.RLock()
	source, ok := m.sources[sourceName]
	if !ok {
		m.mu.RUnlock()
		return nil, fmt.Errorf("source %q: %w", sourceName, ErrUnknownSource)
	}
	loader, hasLoader := m.loaders[source.SourceType]
	baseDir := m.baseDir
	m.mu.RUnlock()

	if !hasLoader {
		return nil, fmt.Errorf("source type %q: %w", source.SourceType, ErrNoLoader)
	}

	config := resolveConfigPaths(source.Config, baseDir)

	schema, err := loader.DiscoverSchema(config)
	if err != nil {
		return nil, fmt.Errorf("failed to discover schema for source %q: %w", sourceName, err)
	}

	table, err := loader.Load(config, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load source %q: %w", sourceName, err)
	}

	m.mu.Lock()
	m.tables[sourceName] = table
	m.mu.Unlock()

	return table, nil
}

// resolveConfigPaths resolves relative file paths in config to absolute paths.
func resolveConfigPaths(config map[string]string, baseDir string) map[string]string {
	resolved := make(map[string]string, len(config))
	for k, v := range config {
		if k == "file_path" && v != "" && baseDir != "" && !filepath.IsAbs(v) {
			resolved[k] = filepath.Join(baseDir, v)
		} else {
			resolved[k] = v
		}
	}
	return resolved
}

// InvalidateCache removes a source from the cache, forcing reload on next access.
func (m *Manager) InvalidateCache(sourceName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, sourceName)
}

// IsLoaded returns whether data for a source is currently cached.
func (m *Manager) IsLoaded(sourceName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[sourceName]
	return ok
}

// GetLoadedSources returns names of all currently loaded (cached) sources, sorted.
func (m *Manager) GetLoadedSources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
