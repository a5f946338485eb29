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

import "fmt"

// PinSide anchors a column to an edge of the grid.
type PinSide int

const (
	PinNone PinSide = iota
	PinLeft
	PinRight
)

func (p PinSide) String() string {
	switch p {
	case PinNone:
		return "none"
	case PinLeft:
		return "left"
	case PinRight:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether p is one of the three pin sides.
func (p PinSide) Valid() bool {
	return p == PinNone || p == PinLeft || p == PinRight
}

// ParsePinSide parses "left", "right" or "none". The empty string means none.
func ParsePinSide(s string) (PinSide, error) {
	switch s {
	case "left":
		return PinLeft, nil
	case "right":
		return PinRight, nil
	case "none", "":
		return PinNone, nil
	}
	return PinNone, fmt.Errorf("unknown pin side %q", s)
}
