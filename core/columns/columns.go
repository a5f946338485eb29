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

package columns

import (
	"errors"
	"fmt"
)

const (
	// DefaultWidth is the width a column gets when its definition leaves it at zero.
	DefaultWidth = 150
	// DefaultMinWidth is the narrowest a column can be resized to when its
	// definition leaves the minimum at zero.
	DefaultMinWidth = 40
)

var (
	ErrEmptyColumnID     = errors.New("column id must not be empty")
	ErrDuplicateColumnID = errors.New("duplicate column id")
)

// ColumnDef describes a single leaf column. It is immutable once created.
type ColumnDef struct {
	id          string // must not contain any of the following characters: & = : ,
	displayName string
	baseWidth   int
	minWidth    int
	canResize   bool
	canPin      bool
}

// NewColumnDef creates a resizable, pinnable column definition. Zero widths fall
// back to DefaultWidth and DefaultMinWidth.
func NewColumnDef(id, displayName string, baseWidth, minWidth int) *ColumnDef {
	return NewColumnDefWithOptions(id, displayName, baseWidth, minWidth, true, true)
}

// NewColumnDefWithOptions creates a column definition with explicit resize and pin
// capabilities.
func NewColumnDefWithOptions(id, displayName string, baseWidth, minWidth int, canResize, canPin bool) *ColumnDef {
	if minWidth <= 0 {
		minWidth = DefaultMinWidth
	}
	if baseWidth <= 0 {
		baseWidth = DefaultWidth
	}
	if displayName == "" {
		displayName = id
	}
	return &ColumnDef{
		id:          id,
		displayName: displayName,
		baseWidth:   baseWidth,
		minWidth:    minWidth,
		canResize:   canResize,
		canPin:      canPin,
	}
}

func (cd *ColumnDef) ID() string {
	return cd.id
}

func (cd *ColumnDef) DisplayName() string {
	return cd.displayName
}

func (cd *ColumnDef) BaseWidth() int {
	return cd.baseWidth
}

func (cd *ColumnDef) MinWidth() int {
	return cd.minWidth
}

func (cd *ColumnDef) CanResize() bool {
	return cd.canResize
}

func (cd *ColumnDef) CanPin() bool {
	return cd.canPin
}

// InitialWidth is the width a column starts with: its base width, never below the minimum.
func (cd *ColumnDef) InitialWidth() int {
	return max(cd.baseWidth, cd.minWidth)
}

// ValidateDefs checks that every definition has a non-empty, unique id.
func ValidateDefs(defs []*ColumnDef) error {
	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		if def == nil || def.id == "" {
			return fmt.Errorf("column %d: %w", i, ErrEmptyColumnID)
		}
		if seen[def.id] {
			return fmt.Errorf("column %q: %w", def.id, ErrDuplicateColumnID)
		}
		seen[def.id] = true
	}
	return nil
}
